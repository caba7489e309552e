package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PrefsRepo is a small key/value table keyed by browser session. It backs the
// persisted theme and the chat draft.
type PrefsRepo struct{ db *sqlx.DB }

func NewPrefsRepo(db *sqlx.DB) *PrefsRepo { return &PrefsRepo{db: db} }

// Get returns the stored value; ok is false when nothing is stored.
func (r *PrefsRepo) Get(owner, key string) (string, bool, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM prefs WHERE owner=? AND key=?`, owner, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *PrefsRepo) Set(owner, key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO prefs(owner,key,value,updated_at) VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(owner,key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP
	`, owner, key, value)
	return err
}

func (r *PrefsRepo) Delete(owner, key string) error {
	_, err := r.db.Exec(`DELETE FROM prefs WHERE owner=? AND key=?`, owner, key)
	return err
}

// Scope binds the repo to one owner.
func (r *PrefsRepo) Scope(owner string) ScopedPrefs { return ScopedPrefs{r: r, owner: owner} }

type ScopedPrefs struct {
	r     *PrefsRepo
	owner string
}

func (s ScopedPrefs) Get(key string) (string, bool, error) { return s.r.Get(s.owner, key) }
func (s ScopedPrefs) Set(key, value string) error          { return s.r.Set(s.owner, key, value) }
func (s ScopedPrefs) Delete(key string) error              { return s.r.Delete(s.owner, key) }
