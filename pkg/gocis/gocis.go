package gocis

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/d21d3q/gocis/internal/decoder"
	internalopts "github.com/d21d3q/gocis/internal/options"
	"github.com/d21d3q/gocis/internal/tuple"
)

// Record is one framed tuple together with its decoded fields.
type Record struct {
	Code    tuple.Code
	Name    string
	Offset  int64
	Payload []byte
	Fields  []decoder.Field
	Last    bool
}

// Reader yields decoded records from a CIS byte stream.
type Reader struct {
	tr  *tuple.Reader
	log *logrus.Entry
	err error
}

// NewReader wraps src. The reader is not safe for concurrent use; open one
// reader per stream.
func NewReader(src io.Reader, opts AnalyzeOptions) (*Reader, error) {
	tr, err := tuple.NewReader(src, opts.Window)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = internalopts.Logger(context.Background())
	}
	return &Reader{tr: tr, log: log}, nil
}

// Offset returns the number of stream bytes consumed so far.
func (r *Reader) Offset() int64 { return r.tr.Offset() }

// Next frames and decodes the next tuple. It returns io.EOF at the end of the
// stream or after CISTPL_END. A decode failure returns the partially decoded
// record along with a *tuple.DecodeError; the reader stays failed afterwards.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	t, err := r.tr.Next()
	if err != nil {
		return Record{}, err
	}
	desc := decoder.Lookup(t.Code)
	rec := Record{
		Code:    t.Code,
		Name:    desc.Name,
		Offset:  t.Offset,
		Payload: t.Payload,
		Last:    t.Last,
	}
	r.log.WithFields(logrus.Fields{
		"code":   fmt.Sprintf("0x%02x", byte(t.Code)),
		"name":   desc.Name,
		"offset": t.Offset,
		"len":    t.Length,
	}).Debug("framed tuple")
	if desc.Decode == nil {
		return rec, nil
	}
	fields, err := desc.Decode(t.Payload)
	rec.Fields = fields
	if err != nil {
		r.err = &tuple.DecodeError{Code: t.Code, HasCode: true, Offset: t.Offset, Err: err}
		return rec, r.err
	}
	return rec, nil
}

// Result captures the outcome of Analyze.
type Result struct {
	RawHex    string
	ByteCount int64
	Records   []Record
}

// Analyze decodes every tuple in src. On a decode fault the records read so
// far, including the partially decoded faulting one, are returned with the
// error.
func Analyze(ctx context.Context, src io.Reader, opts AnalyzeOptions) (Result, error) {
	ctx = opts.toInternal(ctx)
	opts.Logger = internalopts.Logger(ctx)
	r, err := NewReader(src, opts)
	if err != nil {
		return Result{}, err
	}
	var result Result
	for {
		if err := ctx.Err(); err != nil {
			result.ByteCount = r.Offset()
			return result, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Decoder faults still carry the record framed before them.
			if rec.Name != "" {
				result.Records = append(result.Records, rec)
			}
			result.ByteCount = r.Offset()
			return result, err
		}
		result.Records = append(result.Records, rec)
	}
	result.ByteCount = r.Offset()
	return result, nil
}

// AnalyzeHex decodes a hex dump of a CIS image.
func AnalyzeHex(ctx context.Context, raw string, opts AnalyzeOptions) (Result, error) {
	data, err := internalopts.ParseHex(raw)
	if err != nil {
		return Result{}, err
	}
	result, err := Analyze(ctx, bytes.NewReader(data), opts)
	result.RawHex = strings.ToUpper(hex.EncodeToString(data))
	return result, err
}

// String renders the records the way the classic cisparse tool prints them.
func (r Result) String() string {
	var b strings.Builder
	for _, rec := range r.Records {
		rec.writeText(&b)
	}
	return b.String()
}

func (rec Record) writeText(b *strings.Builder) {
	if rec.Last {
		fmt.Fprintf(b, "Tuple %s (%02x)\n", rec.Name, byte(rec.Code))
		return
	}
	fmt.Fprintf(b, "Tuple %s (%02x), len %02x\n", rec.Name, byte(rec.Code), len(rec.Payload))
	for i, by := range rec.Payload {
		sep := " "
		if i%8 == 7 || i == len(rec.Payload)-1 {
			sep = "\n"
		}
		fmt.Fprintf(b, "%02x%s", by, sep)
	}
	for _, f := range rec.Fields {
		fmt.Fprintf(b, "  %s\n", f)
	}
}

type recordJSON struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Offset  int64           `json:"offset"`
	Length  int             `json:"length"`
	Payload string          `json:"payload,omitempty"`
	Fields  []decoder.Field `json:"fields,omitempty"`
	Last    bool            `json:"last,omitempty"`
	Unknown bool            `json:"unknown,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (rec Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Code:    fmt.Sprintf("0x%02x", byte(rec.Code)),
		Name:    rec.Name,
		Offset:  rec.Offset,
		Length:  len(rec.Payload),
		Payload: hex.EncodeToString(rec.Payload),
		Fields:  rec.Fields,
		Last:    rec.Last,
		Unknown: !rec.Code.Known(),
	})
}

// JSON renders the result as an indented JSON document.
func (r Result) JSON() ([]byte, error) {
	records := r.Records
	if records == nil {
		records = []Record{}
	}
	summary := map[string]any{
		"byte_count": r.ByteCount,
		"tuples":     records,
	}
	if r.RawHex != "" {
		summary["raw_hex"] = r.RawHex
	}
	return json.MarshalIndent(summary, "", "  ")
}
