package entity

// User is a registered account. Records are created by registration and are
// never deleted; the only field mutated afterwards is the position.
type User struct {
	ID           int64
	Name         string
	PasswordHash string

	// Last reported position in degrees. Zero until the first Location
	// event from any of the user's connections.
	Lat float64
	Lon float64
}
