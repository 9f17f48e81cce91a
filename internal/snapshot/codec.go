// Package snapshot serializes a project to the portable JSON document the
// user downloads for manual save and re-uploads to restore a session.
//
// The document layout is a boundary contract: field names and the two-space
// indentation are fixed so snapshots stay interchangeable across versions.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

type (
	document struct {
		ProjectName        string      `json:"project_name"`
		ProjectCreatedDate string      `json:"project_created_date"`
		DriveFolderURL     string      `json:"drive_folder_url"`
		Damages            []recordDoc `json:"damages"`
		LastSaved          string      `json:"last_saved"`
	}

	recordDoc struct {
		Title       string  `json:"Title"`
		Description string  `json:"Description"`
		Date        string  `json:"Date"`
		Category    string  `json:"Category"`
		Cost        float64 `json:"Cost"`
		Receipt     string  `json:"Receipt"`
		Link        string  `json:"Link"`
	}
)

// LoadError reports a snapshot that could not be restored. The in-memory
// project is never touched when decoding fails.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return "load project: " + e.Reason + ": " + e.Err.Error()
	}
	return "load project: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// Encode serializes the full project state plus a last-saved timestamp.
func Encode(p *core.Project, now time.Time) ([]byte, error) {
	doc := document{
		ProjectName:        p.Name,
		ProjectCreatedDate: p.CreatedAt,
		DriveFolderURL:     p.ReceiptBaseLink,
		Damages:            make([]recordDoc, 0, len(p.Records)),
		LastSaved:          now.Format("2006-01-02 15:04:05"),
	}
	for _, r := range p.Records {
		doc.Damages = append(doc.Damages, recordDoc{
			Title:       r.Title,
			Description: r.Description,
			Date:        r.Date,
			Category:    r.Category,
			Cost:        r.Cost.Dollars(),
			Receipt:     r.Receipt,
			Link:        r.Link,
		})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return out, nil
}

// Decode parses a snapshot document into a fresh Project. Missing optional
// fields (drive_folder_url, damages) default to empty; malformed JSON or an
// invalid record yields a *LoadError and no project.
func Decode(data []byte) (*core.Project, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "malformed project file", Err: err}
	}
	if strings.TrimSpace(doc.ProjectName) == "" {
		return nil, &LoadError{Reason: "missing project_name"}
	}

	p := &core.Project{
		Name:            doc.ProjectName,
		CreatedAt:       doc.ProjectCreatedDate,
		ReceiptBaseLink: doc.DriveFolderURL,
	}
	for i, d := range doc.Damages {
		rec := core.DamageRecord{
			Title:       d.Title,
			Description: d.Description,
			Date:        d.Date,
			Category:    d.Category,
			Cost:        core.MoneyFromDollars(d.Cost),
			Receipt:     d.Receipt,
			Link:        d.Link,
		}
		if err := rec.Validate(); err != nil {
			return nil, &LoadError{
				Reason: fmt.Sprintf("damage entry %d is invalid", i+1),
				Err:    err,
			}
		}
		p.Records = append(p.Records, rec)
	}
	return p, nil
}
