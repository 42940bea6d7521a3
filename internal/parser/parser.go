// Package parser reads OpenVAS/GVM XML report documents and extracts the
// raw per-finding result records.
package parser

import (
	"encoding/xml"
	"fmt"
	"io"
)

// RecordReader streams result records out of one report document. It makes
// a single pass over the input and is not restartable.
type RecordReader struct {
	dec     *xml.Decoder
	stack   []string
	index   int
	started bool
}

// NewRecordReader creates a reader over one report document.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{dec: xml.NewDecoder(r)}
}

// Next returns the next result record, io.EOF when the document is
// exhausted, a MalformedInputError when the document is not well-formed
// XML, or a MissingIdentifierError when a record has no id attribute. The
// latter affects only that record; calling Next again resumes at the
// following one.
func (rr *RecordReader) Next() (*RawRecord, error) {
	for {
		tok, err := rr.dec.Token()
		if err == io.EOF {
			if !rr.started {
				return nil, &MalformedInputError{Err: fmt.Errorf("document has no root element")}
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, &MalformedInputError{Err: err}
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !rr.started {
				rr.started = true
				if el.Name.Local != "report" {
					return nil, &MalformedInputError{Err: fmt.Errorf("root element is <%s>, expected <report>", el.Name.Local)}
				}
			}

			// Only result elements directly under a results container are
			// records; detection blocks nest their own result elements.
			if el.Name.Local == "result" && rr.parent() == "results" {
				rec, err := rr.decodeRecord(&el)
				if err != nil {
					return nil, err
				}
				return rec, nil
			}
			rr.stack = append(rr.stack, el.Name.Local)

		case xml.EndElement:
			if n := len(rr.stack); n > 0 {
				rr.stack = rr.stack[:n-1]
			}
		}
	}
}

func (rr *RecordReader) decodeRecord(start *xml.StartElement) (*RawRecord, error) {
	var rec RawRecord
	if err := rr.dec.DecodeElement(&rec, start); err != nil {
		return nil, &MalformedInputError{Err: err}
	}
	rr.index++
	rec.tidy()
	if rec.ID == "" {
		return nil, &MissingIdentifierError{Index: rr.index}
	}
	return &rec, nil
}

func (rr *RecordReader) parent() string {
	if len(rr.stack) == 0 {
		return ""
	}
	return rr.stack[len(rr.stack)-1]
}

// ParseAll reads every record of the document, aborting on the first
// error. Callers that want to skip records without identifiers use
// RecordReader directly.
func ParseAll(r io.Reader) ([]*RawRecord, error) {
	rr := NewRecordReader(r)

	var records []*RawRecord
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
