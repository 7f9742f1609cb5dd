package models

import (
	"encoding/json"
	"fmt"
)

// Collection names a persisted ledger collection.
type Collection string

const (
	CollectionBooks          Collection = "diplomaBooks"
	CollectionDecisions      Collection = "graduationDecisions"
	CollectionFieldTemplates Collection = "diplomaFieldTemplates"
	CollectionEntries        Collection = "diplomaInformations"
	CollectionLookups        Collection = "diplomaLookupRecords"
)

// AllCollections lists every collection in persistence order.
var AllCollections = []Collection{
	CollectionBooks,
	CollectionDecisions,
	CollectionFieldTemplates,
	CollectionEntries,
	CollectionLookups,
}

// Older exports used different keys for three of the collections.
var legacyCollectionAliases = map[string]Collection{
	"diplomaFields":     CollectionFieldTemplates,
	"diplomaInfos":      CollectionEntries,
	"diplomaLookupLogs": CollectionLookups,
}

// Snapshot is the full serialisable ledger state.
type Snapshot struct {
	DiplomaBooks          []DiplomaBook          `json:"diplomaBooks"`
	GraduationDecisions   []GraduationDecision   `json:"graduationDecisions"`
	DiplomaFieldTemplates []DiplomaFieldTemplate `json:"diplomaFieldTemplates"`
	DiplomaInformations   []DiplomaEntry         `json:"diplomaInformations"`
	DiplomaLookupRecords  []DiplomaLookupRecord  `json:"diplomaLookupRecords"`
}

// Normalize replaces nil collections and nil extra-field maps with empty ones.
func (s *Snapshot) Normalize() {
	if s.DiplomaBooks == nil {
		s.DiplomaBooks = []DiplomaBook{}
	}
	if s.GraduationDecisions == nil {
		s.GraduationDecisions = []GraduationDecision{}
	}
	if s.DiplomaFieldTemplates == nil {
		s.DiplomaFieldTemplates = []DiplomaFieldTemplate{}
	}
	if s.DiplomaInformations == nil {
		s.DiplomaInformations = []DiplomaEntry{}
	}
	if s.DiplomaLookupRecords == nil {
		s.DiplomaLookupRecords = []DiplomaLookupRecord{}
	}
	for i := range s.DiplomaInformations {
		if s.DiplomaInformations[i].AdditionalFields == nil {
			s.DiplomaInformations[i].AdditionalFields = map[string]interface{}{}
		}
	}
}

// Clone returns a deep copy with normalised collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		DiplomaBooks:          make([]DiplomaBook, 0, len(s.DiplomaBooks)),
		GraduationDecisions:   append([]GraduationDecision{}, s.GraduationDecisions...),
		DiplomaFieldTemplates: append([]DiplomaFieldTemplate{}, s.DiplomaFieldTemplates...),
		DiplomaInformations:   make([]DiplomaEntry, 0, len(s.DiplomaInformations)),
		DiplomaLookupRecords:  append([]DiplomaLookupRecord{}, s.DiplomaLookupRecords...),
	}
	for _, b := range s.DiplomaBooks {
		out.DiplomaBooks = append(out.DiplomaBooks, b.Clone())
	}
	for _, e := range s.DiplomaInformations {
		out.DiplomaInformations = append(out.DiplomaInformations, e.Clone())
	}
	return out
}

// Empty reports whether the snapshot holds no records at all.
func (s Snapshot) Empty() bool {
	return len(s.DiplomaBooks) == 0 &&
		len(s.GraduationDecisions) == 0 &&
		len(s.DiplomaFieldTemplates) == 0 &&
		len(s.DiplomaInformations) == 0 &&
		len(s.DiplomaLookupRecords) == 0
}

// EncodeCollections marshals the named collections (all of them when none are
// named) into one JSON document per collection key.
func (s Snapshot) EncodeCollections(collections ...Collection) (map[Collection][]byte, error) {
	if len(collections) == 0 {
		collections = AllCollections
	}
	s.Normalize()
	out := make(map[Collection][]byte, len(collections))
	for _, c := range collections {
		var value interface{}
		switch c {
		case CollectionBooks:
			value = s.DiplomaBooks
		case CollectionDecisions:
			value = s.GraduationDecisions
		case CollectionFieldTemplates:
			value = s.DiplomaFieldTemplates
		case CollectionEntries:
			value = s.DiplomaInformations
		case CollectionLookups:
			value = s.DiplomaLookupRecords
		default:
			return nil, fmt.Errorf("unknown collection %q", c)
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c, err)
		}
		out[c] = payload
	}
	return out, nil
}

// DecodeCollections rebuilds a snapshot from per-collection JSON documents.
// Legacy keys are honoured when the canonical key is absent; unknown keys are ignored.
func DecodeCollections(raw map[string][]byte) (Snapshot, error) {
	canonical := make(map[Collection][]byte, len(raw))
	for key, payload := range raw {
		if _, isAlias := legacyCollectionAliases[key]; !isAlias {
			canonical[Collection(key)] = payload
		}
	}
	for key, payload := range raw {
		alias, ok := legacyCollectionAliases[key]
		if !ok {
			continue
		}
		if _, exists := canonical[alias]; !exists {
			canonical[alias] = payload
		}
	}

	var s Snapshot
	targets := map[Collection]interface{}{
		CollectionBooks:          &s.DiplomaBooks,
		CollectionDecisions:      &s.GraduationDecisions,
		CollectionFieldTemplates: &s.DiplomaFieldTemplates,
		CollectionEntries:        &s.DiplomaInformations,
		CollectionLookups:        &s.DiplomaLookupRecords,
	}
	for c, target := range targets {
		payload, ok := canonical[c]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", c, err)
		}
	}
	s.Normalize()
	return s, nil
}

// UnmarshalJSON accepts both the canonical and the legacy collection keys.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	raw := make(map[string][]byte, len(doc))
	for k, v := range doc {
		raw[k] = v
	}
	decoded, err := DecodeCollections(raw)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
