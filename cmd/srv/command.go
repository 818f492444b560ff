package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "proxchat"
	app.Usage = "proximity chat backend"
	app.Commands = []*cli.Command{
		{
			Action: server.startServe,
			Name:   "serve",
			Usage:  "Start the chat server",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "config",
					Usage: "Path to a TOML configuration file",
				},
			},
			Description: `Accepts websocket connections and broadcasts chat messages between
authenticated clients within geographic range of each other.`,
		},
	}

	s.app = app
}
