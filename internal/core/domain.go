package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// ISODate is the layout every record date is stored in. Keeping dates as
	// zero-padded ISO strings makes lexical comparison equal to date
	// comparison, which the chronological views rely on.
	ISODate = "2006-01-02"

	// MaxTitleLen and MaxDescriptionLen bound free-text fields at entry time.
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

type (
	Money struct {
		Cents int64
	}

	// DamageRecord is one claimed item of loss.
	DamageRecord struct {
		Title       string
		Description string
		Date        string // ISO YYYY-MM-DD
		Category    string // canonical label from NormalizeCategory
		Cost        Money
		Receipt     string // stored receipt filename, empty if none
		Link        string // receipt URL or path, empty if none
	}

	// Project is the unit of work: a named, ordered collection of damage
	// records plus the metadata persisted in a snapshot.
	Project struct {
		Name            string
		CreatedAt       string // "2006-01-02 15:04" capture at creation
		ReceiptBaseLink string
		Records         []DamageRecord
	}
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyProject  = errors.New("empty project name")
)

// ValidateISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidateISODate(s string) error {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return ErrInvalidDate
	}
	// time.Parse accepts e.g. "2024-1-05" variants only for other layouts,
	// but round-trip the value to reject any non-canonical spelling.
	if t.Format(ISODate) != s {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate enforces the entry-workflow invariants: non-empty title, positive
// cost, valid ISO date, non-empty canonical category. Receipt fields are
// caller-supplied strings and never validated here.
func (r DamageRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if len(r.Title) > MaxTitleLen {
		return errors.New("title too long (max 200 characters)")
	}
	if len(r.Description) > MaxDescriptionLen {
		return errors.New("description too long (max 1000 characters)")
	}
	if err := ValidateISODate(r.Date); err != nil {
		return err
	}
	if err := r.Cost.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// NewProject creates an empty project stamped with the current time.
func NewProject(name string, now time.Time) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProject
	}
	return &Project{
		Name:      strings.TrimSpace(name),
		CreatedAt: now.Format("2006-01-02 15:04"),
	}, nil
}

// SafeName normalizes the project name for use in export filenames:
// spaces become underscores and slashes become hyphens.
func (p *Project) SafeName() string {
	s := strings.ReplaceAll(p.Name, " ", "_")
	return strings.ReplaceAll(s, "/", "-")
}

// BuildReceiptLink joins the configured base link with a stored filename.
// The result is display metadata only; reachability is never checked.
func BuildReceiptLink(baseLink, filename string) string {
	if baseLink == "" {
		return filename
	}
	return strings.TrimRight(baseLink, "/") + "/" + filename
}
