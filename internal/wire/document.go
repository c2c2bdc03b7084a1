package wire

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Document is a stored record of a collection: reserved attributes plus the
// user-defined fields in Data.
type Document struct {
	ID           string
	CollectionID string
	CreatedAt    time.Time
	Data         map[string]any
}

// Struct encodes the document with reserved attributes at the top level,
// next to the data fields.
func (d Document) Struct() (*structpb.Struct, error) {
	fields := make(map[string]any, len(d.Data)+3)
	for k, v := range d.Data {
		fields[k] = normalize(v)
	}
	fields[AttrID] = d.ID
	fields[AttrCollectionID] = d.CollectionID
	fields[AttrCreatedAt] = FormatTime(d.CreatedAt)

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	return s, nil
}

// DocumentFromStruct decodes a document encoded by Document.Struct.
func DocumentFromStruct(s *structpb.Struct) Document {
	data := s.AsMap()
	d := Document{
		ID:           String(s, AttrID),
		CollectionID: String(s, AttrCollectionID),
		CreatedAt:    Time(s, AttrCreatedAt),
	}
	delete(data, AttrID)
	delete(data, AttrCollectionID)
	delete(data, AttrCreatedAt)
	d.Data = data
	return d
}

// Get returns the data attribute key as a string, or "".
func (d Document) Get(key string) string {
	s, _ := d.Data[key].(string)
	return s
}
