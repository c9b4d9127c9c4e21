package changelog

import (
	"bytes"
	"encoding/json"
)

// DecodeJSON reads one canonical document or an array of them from JSON.
// Malformed input is a fatal ParseError. Decoded documents are normalized:
// sentinel version and date, synthesized hashes where missing, sections
// relinked to the canonical commit instances and stats recomputed.
func DecodeJSON(data []byte) ([]*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Message: "malformed JSON: empty input"}
	}

	var docs []*Document
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, &ParseError{Message: "malformed JSON: " + err.Error(), Err: err}
		}
	} else {
		var doc Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, &ParseError{Message: "malformed JSON: " + err.Error(), Err: err}
		}
		docs = []*Document{&doc}
	}

	out := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		normalizeDocument(doc)
		out = append(out, doc)
	}
	return out, nil
}

// normalizeDocument repairs a decoded document so it satisfies the model
// invariants no matter how sloppy the JSON was.
func normalizeDocument(doc *Document) {
	doc.Version = normalizeVersion(doc.Version)
	if doc.Version == "" {
		doc.Version = VersionUnknown
	}
	if doc.Date == "" {
		doc.Date = DateUnknown
	}

	known := make(map[string]bool, len(doc.Commits))
	for _, c := range doc.Commits {
		normalizeCommit(c, doc.Date, "")
		known[c.Hash] = true
	}
	// Sections may reference commits the flat list is missing; adopt them
	// rather than breaking referential integrity.
	for _, s := range doc.Sections {
		if s.Type == "" {
			s.Type = TypeOther
		}
		for _, c := range s.Commits {
			normalizeCommit(c, doc.Date, s.Type)
			if !known[c.Hash] {
				known[c.Hash] = true
				doc.Commits = append(doc.Commits, c)
			}
		}
	}

	doc.Relink()
	doc.RefreshStats()
}

func normalizeCommit(c *Commit, docDate, sectionType string) {
	if c.Subject == "" {
		c.Subject = c.Hash
	}
	if c.Hash == "" {
		c.Hash, c.ShortHash = SynthesizeHash(c.Subject, c.Scope)
	}
	if c.ShortHash == "" {
		c.ShortHash = ShortenHash(c.Hash)
	}
	if c.Type == "" {
		if sectionType != "" {
			c.Type = sectionType
		} else {
			c.Type = TypeOther
		}
	}
	if c.Author.Name == "" {
		c.Author.Name = VersionUnknown
	}
	if c.Date == "" {
		if IsISODate(docDate) {
			c.Date = docDate
		} else {
			c.Date = DateUnknown
		}
	}
}
