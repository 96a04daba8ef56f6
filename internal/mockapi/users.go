package mockapi

import (
	"errors"
	"strings"
	"sync"

	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

type account struct {
	user         a11ysdk.User
	passwordHash string
}

// directory is the in-memory user table. Usernames and emails are unique;
// emails compare case-insensitively.
type directory struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*account
	byUsername map[string]*account
	byEmail    map[string]*account
}

func newDirectory() *directory {
	return &directory{
		nextID:     1,
		byID:       make(map[int64]*account),
		byUsername: make(map[string]*account),
		byEmail:    make(map[string]*account),
	}
}

func (d *directory) create(u a11ysdk.User, passwordHash string) (a11ysdk.User, error) {
	email := strings.ToLower(u.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byUsername[u.Username]; ok {
		return a11ysdk.User{}, ErrUsernameTaken
	}
	if _, ok := d.byEmail[email]; ok {
		return a11ysdk.User{}, ErrEmailTaken
	}

	u.ID = d.nextID
	d.nextID++

	acc := &account{user: u, passwordHash: passwordHash}
	d.byID[u.ID] = acc
	d.byUsername[u.Username] = acc
	d.byEmail[email] = acc
	return u, nil
}

// credentials returns the user and password hash for username.
func (d *directory) credentials(username string) (a11ysdk.User, string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.byUsername[username]
	if !ok {
		return a11ysdk.User{}, "", false
	}
	return acc.user, acc.passwordHash, true
}

func (d *directory) get(id int64) (a11ysdk.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.byID[id]
	if !ok {
		return a11ysdk.User{}, ErrUserNotFound
	}
	return acc.user, nil
}

// updateNeeds applies fn to the user's stored preferences under the lock.
func (d *directory) updateNeeds(id int64, fn func(prefs.Preferences) (prefs.Preferences, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc, ok := d.byID[id]
	if !ok {
		return ErrUserNotFound
	}

	next, err := fn(acc.user.AccessibilityNeeds)
	if err != nil {
		return err
	}
	acc.user.AccessibilityNeeds = next
	return nil
}
