package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/model"
	"github.com/proxchat/backend/internal/repository"
	"github.com/proxchat/backend/pkg/errorx"
	"github.com/proxchat/backend/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	events []model.ServerEvent
	fail   bool
}

func (f *fakeSender) Send(msg []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("connection is closing")
	}

	var event model.ServerEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	f.events = append(f.events, event)
	return nil
}

func (f *fakeSender) received() []model.ServerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.ServerEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeSender) chatMessages() []model.MessageEvent {
	var out []model.MessageEvent
	for _, e := range f.received() {
		if e.Message != nil {
			out = append(out, *e.Message)
		}
	}
	return out
}

// stubAuth treats the stored hash as the plain password; KDF behaviour is
// covered by the auth domain tests.
type stubAuth struct {
	users repository.UserRepository
}

func (a stubAuth) Login(ctx context.Context, username, password string) (int64, error) {
	u, ok := a.users.GetByName(ctx, username)
	if !ok || u.PasswordHash != password {
		return 0, errorx.New(errorx.Unauthenticated, "invalid credentials")
	}

	return u.ID, nil
}

func (a stubAuth) Register(ctx context.Context, username, password string) (int64, error) {
	return a.users.Create(ctx, username, password)
}

type testEnv struct {
	t        *testing.T
	users    repository.UserRepository
	registry *Registry
	d        *Dispatcher
}

func newTestEnv(t *testing.T, workers int) *testEnv {
	cfg := config.Default()
	cfg.Chat.Workers = workers
	cfg.Chat.QueueSize = 256

	users := repository.NewUserRepository()
	registry := NewRegistry()
	d := NewDispatcher(cfg, logger.NewLogger(logger.SILENCE), registry, users, stubAuth{users})

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(cancel)

	return &testEnv{t: t, users: users, registry: registry, d: d}
}

func (e *testEnv) open() (int64, *fakeSender) {
	sender := &fakeSender{}
	reply := make(chan int64, 1)
	e.d.Enqueue(OpenCommand{Session: NewSession(sender), Reply: reply})

	select {
	case id := <-reply:
		return id, sender
	case <-time.After(5 * time.Second):
		e.t.Fatal("timed out waiting for open reply")
		return 0, nil
	}
}

func (e *testEnv) await(reply chan bool) bool {
	select {
	case status := <-reply:
		return status
	case <-time.After(5 * time.Second):
		e.t.Fatal("timed out waiting for reply")
		return false
	}
}

func (e *testEnv) register(connID int64, username, password string) bool {
	reply := make(chan bool, 1)
	e.d.Enqueue(RegisterCommand{ConnectionID: connID, Username: username, Password: password, Reply: reply})
	return e.await(reply)
}

func (e *testEnv) login(connID int64, username, password string) bool {
	reply := make(chan bool, 1)
	e.d.Enqueue(LoginCommand{ConnectionID: connID, Username: username, Password: password, Reply: reply})
	return e.await(reply)
}

// barrier waits for every previously enqueued command to finish. It relies
// on a single-worker pool processing the queue in order.
func (e *testEnv) barrier() {
	reply := make(chan bool, 1)
	e.d.Enqueue(LoginCommand{ConnectionID: -1, Username: "", Password: "", Reply: reply})
	e.await(reply)
}

func TestDispatcher_BroadcastReachesUsersInRange(t *testing.T) {
	e := newTestEnv(t, 1)

	aliceConn, aliceSender := e.open()
	bobConn, bobSender := e.open()
	carolConn, carolSender := e.open()
	_, strangerSender := e.open()

	require.True(t, e.register(aliceConn, "alice", "pw-a"))
	require.True(t, e.register(bobConn, "bob", "pw-b"))
	require.True(t, e.register(carolConn, "carol", "pw-c"))

	// Alice and Bob are ~5.6 km apart, Carol a full degree away. The
	// fourth connection never authenticates.
	e.d.Enqueue(UpdatePositionCommand{ConnectionID: aliceConn, Lat: 0, Lon: 0})
	e.d.Enqueue(UpdatePositionCommand{ConnectionID: bobConn, Lat: 0, Lon: 0.05})
	e.d.Enqueue(UpdatePositionCommand{ConnectionID: carolConn, Lat: 0, Lon: 1.0})

	e.d.Enqueue(SendMessageCommand{ConnectionID: aliceConn, Msg: "hello?"})
	e.barrier()

	require.Equal(t, []model.MessageEvent{{Username: "alice", Msg: "hello?"}}, bobSender.chatMessages())
	require.Empty(t, carolSender.chatMessages())
	require.Empty(t, strangerSender.chatMessages())

	// The sender's own connection does not receive the message.
	require.Empty(t, aliceSender.chatMessages())

	// In range is symmetric: Bob's reply reaches Alice.
	e.d.Enqueue(SendMessageCommand{ConnectionID: bobConn, Msg: "hey"})
	e.barrier()
	require.Equal(t, []model.MessageEvent{{Username: "bob", Msg: "hey"}}, aliceSender.chatMessages())
}

func TestDispatcher_UnboundConnectionCannotSend(t *testing.T) {
	e := newTestEnv(t, 1)

	aliceConn, aliceSender := e.open()
	strangerConn, _ := e.open()

	require.True(t, e.register(aliceConn, "alice", "pw"))
	e.d.Enqueue(UpdatePositionCommand{ConnectionID: aliceConn, Lat: 0, Lon: 0})

	// Neither the message nor the position report of an unauthenticated
	// connection has any effect.
	e.d.Enqueue(SendMessageCommand{ConnectionID: strangerConn, Msg: "anonymous"})
	e.d.Enqueue(UpdatePositionCommand{ConnectionID: strangerConn, Lat: 0, Lon: 0})
	e.barrier()

	require.Empty(t, aliceSender.chatMessages())
	require.Equal(t, 1, e.users.Count(context.Background()))
}

func TestDispatcher_LoginFlow(t *testing.T) {
	e := newTestEnv(t, 1)

	regConn, _ := e.open()
	require.True(t, e.register(regConn, "alice", "pw"))

	loginConn, _ := e.open()
	require.False(t, e.login(loginConn, "alice", "wrong"))
	require.False(t, e.login(loginConn, "nobody", "pw"))
	require.True(t, e.login(loginConn, "alice", "pw"))

	sess, ok := e.registry.Get(loginConn)
	require.True(t, ok)
	require.NotZero(t, sess.UserID())
}

func TestDispatcher_RebindIsRejected(t *testing.T) {
	e := newTestEnv(t, 1)

	conn, sender := e.open()
	require.True(t, e.register(conn, "alice", "pw"))

	// A second authentication on the same connection fails and leaves
	// the original binding intact, with an error event explaining why.
	require.False(t, e.login(conn, "alice", "pw"))
	require.False(t, e.register(conn, "alice2", "pw"))

	sess, ok := e.registry.Get(conn)
	require.True(t, ok)
	u, found := e.users.GetByID(context.Background(), sess.UserID())
	require.True(t, found)
	require.Equal(t, "alice", u.Name)

	var reasons []string
	for _, event := range sender.received() {
		if event.Error != nil {
			reasons = append(reasons, event.Error.Reason)
		}
	}
	require.Len(t, reasons, 2)
	require.Contains(t, reasons[0], "already authenticated")
}

func TestDispatcher_CloseStopsDelivery(t *testing.T) {
	e := newTestEnv(t, 1)

	aliceConn, _ := e.open()
	bobConn, bobSender := e.open()

	require.True(t, e.register(aliceConn, "alice", "pw"))
	require.True(t, e.register(bobConn, "bob", "pw"))

	e.d.Enqueue(SendMessageCommand{ConnectionID: aliceConn, Msg: "first"})
	e.d.Enqueue(CloseCommand{ConnectionID: bobConn})
	e.d.Enqueue(SendMessageCommand{ConnectionID: aliceConn, Msg: "second"})
	e.barrier()

	require.Equal(t, []model.MessageEvent{{Username: "alice", Msg: "first"}}, bobSender.chatMessages())

	// Closing twice is harmless.
	e.d.Enqueue(CloseCommand{ConnectionID: bobConn})
	e.barrier()
}

func TestDispatcher_DeliveryFailureDoesNotAbortBroadcast(t *testing.T) {
	e := newTestEnv(t, 1)

	aliceConn, _ := e.open()
	bobConn, bobSender := e.open()
	carolConn, carolSender := e.open()

	require.True(t, e.register(aliceConn, "alice", "pw"))
	require.True(t, e.register(bobConn, "bob", "pw"))
	require.True(t, e.register(carolConn, "carol", "pw"))

	bobSender.mu.Lock()
	bobSender.fail = true
	bobSender.mu.Unlock()

	e.d.Enqueue(SendMessageCommand{ConnectionID: aliceConn, Msg: "hello"})
	e.barrier()

	require.Empty(t, bobSender.chatMessages())
	require.Equal(t, []model.MessageEvent{{Username: "alice", Msg: "hello"}}, carolSender.chatMessages())
}

func TestDispatcher_ConcurrentRegistrationOfOneName(t *testing.T) {
	e := newTestEnv(t, 4)

	const attempts = 16
	conns := make([]int64, attempts)
	for i := range conns {
		conns[i], _ = e.open()
	}

	results := make(chan bool, attempts)
	var wg sync.WaitGroup
	for _, conn := range conns {
		conn := conn
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.register(conn, "popular", "pw")
		}()
	}

	wg.Wait()
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}

	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, e.users.Count(context.Background()))
}

type panicCommand struct{}

func (panicCommand) name() string { return "panic" }

func TestDispatcher_WorkerSurvivesPanickingCommand(t *testing.T) {
	e := newTestEnv(t, 1)

	// An unknown command type only logs; a command that panics must not
	// kill the worker either.
	e.d.Enqueue(panicCommand{})
	e.d.Enqueue(OpenCommand{Session: nil, Reply: make(chan int64, 1)}) // nil session panics in setID

	conn, _ := e.open()
	require.True(t, e.register(conn, "alice", "pw"))
}
