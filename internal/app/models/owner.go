package models

import "fmt"

// PasswordVerifier compares a plain password against a stored hash.
type PasswordVerifier func(hashedPassword, password string) bool

// Owner is the authenticated principal and the single course it is currently editing.
// The login flag is session local and never persisted.
type Owner struct {
	id           int64
	username     string
	passwordHash string
	loggedIn     bool
	course       *Course
}

// NewOwner builds an owner with an empty course.
func NewOwner(id int64, username, passwordHash string) *Owner {
	return &Owner{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		course:       NewCourse(),
	}
}

func (o *Owner) String() string {
	return fmt.Sprintf("Owner{id=%d, username=%q}", o.id, o.username)
}

// ID returns the durable owner id.
func (o *Owner) ID() int64 { return o.id }

// Username returns the unique username.
func (o *Owner) Username() string { return o.username }

// PasswordHash returns the stored password hash.
func (o *Owner) PasswordHash() string { return o.passwordHash }

// Course returns the course currently being edited.
func (o *Owner) Course() *Course { return o.course }

// SetCourse replaces the course currently being edited.
func (o *Owner) SetCourse(c *Course) {
	if c == nil {
		c = NewCourse()
	}
	o.course = c
}

// LoggedIn reports the session login flag.
func (o *Owner) LoggedIn() bool { return o.loggedIn }

// Login marks the owner as logged in. It returns false if already logged in.
func (o *Owner) Login() bool {
	if o.loggedIn {
		return false
	}
	o.loggedIn = true
	return true
}

// Logoff marks the owner as logged off. It returns false if already logged off.
func (o *Owner) Logoff() bool {
	if !o.loggedIn {
		return false
	}
	o.loggedIn = false
	return true
}

// Authenticate checks a candidate password against the stored hash.
func (o *Owner) Authenticate(password string, verify PasswordVerifier) bool {
	if verify == nil || o.passwordHash == "" {
		return false
	}
	return verify(o.passwordHash, password)
}
