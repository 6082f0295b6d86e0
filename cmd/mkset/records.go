package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/g-m-twostay/multikey/Sets"
	"github.com/g-m-twostay/multikey/Sets/MultiSet"
	"github.com/g-m-twostay/multikey/Trees"
)

type Record struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// schema holds the keys of Record. id is the primary key, emails are compared
// case insensitively.
type schema struct {
	cfg      *MultiSet.Config[Record]
	byID     *MultiSet.Key[Record, int64]
	byHandle *MultiSet.Key[Record, string]
	byEmail  *MultiSet.Key[Record, string]
}

func newSchema(log *slog.Logger) *schema {
	c := MultiSet.NewConfig[Record]()
	c.Logger = log
	return &schema{
		cfg:      c,
		byID:     MultiSet.NewOrderedKey(c, "id", func(r Record) int64 { return r.ID }),
		byHandle: MultiSet.NewOrderedKey(c, "handle", func(r Record) string { return r.Handle }),
		byEmail: MultiSet.NewKey(c, "email", func(r Record) string {
			return strings.ToLower(r.Email)
		}, strings.Compare),
	}
}

// readRecords parses JSON lines, skipping blank ones.
func readRecords(r io.Reader, name string) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return out, nil
}

// load the records of path into a set with policy p. "-" reads stdin.
func (s *schema) load(path string, p Sets.Policy) (MultiSet.Set[Record], error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return MultiSet.Set[Record]{}, err
		}
		defer f.Close()
		r = f
	}
	recs, err := readRecords(r, path)
	if err != nil {
		return MultiSet.Set[Record]{}, err
	}
	set := MultiSet.Empty(s.cfg)
	var dropped, replaced int
	for _, rec := range recs {
		var hit []Record
		if set, hit = set.Put(s.cfg, p, rec); len(hit) > 0 {
			if p == Sets.PreferExisting {
				dropped++
			} else {
				replaced += len(hit)
			}
		}
	}
	slog.Info("loaded records", "path", path, "records", len(recs), "size", set.Size(), "dropped", dropped, "replaced", replaced)
	return set, nil
}

func (s *schema) keyNames() string {
	return strings.Join(s.cfg.Names(), ", ")
}

// slice of set ordered by the named key.
func (s *schema) slice(set MultiSet.Set[Record], key string, d Trees.Direction) ([]Record, error) {
	t, err := s.tree(set, key)
	if err != nil {
		return nil, err
	}
	return t.Slice(d), nil
}

func (s *schema) tree(set MultiSet.Set[Record], key string) (Trees.PTree[Record], error) {
	switch key {
	case "id":
		return s.byID.Tree(set), nil
	case "handle":
		return s.byHandle.Tree(set), nil
	case "email":
		return s.byEmail.Tree(set), nil
	}
	return Trees.PTree[Record]{}, errors.Errorf("unknown key %q (keys: %s)", key, s.keyNames())
}

// get the record whose named key has the given value.
func (s *schema) get(set MultiSet.Set[Record], key, value string) (Record, bool, error) {
	switch key {
	case "id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Record{}, false, errors.Wrapf(err, "bad id %q", value)
		}
		r, ok := s.byID.Element(set, id)
		return r, ok, nil
	case "handle":
		r, ok := s.byHandle.Element(set, value)
		return r, ok, nil
	case "email":
		r, ok := s.byEmail.Element(set, strings.ToLower(value))
		return r, ok, nil
	}
	return Record{}, false, errors.Errorf("unknown key %q (keys: %s)", key, s.keyNames())
}

func (s *schema) intersect(key string, a, b MultiSet.Set[Record]) (MultiSet.Set[Record], error) {
	switch key {
	case "id":
		return s.byID.Intersect(a, b), nil
	case "handle":
		return s.byHandle.Intersect(a, b), nil
	case "email":
		return s.byEmail.Intersect(a, b), nil
	}
	return MultiSet.Set[Record]{}, errors.Errorf("unknown key %q (keys: %s)", key, s.keyNames())
}

func (s *schema) except(key string, a, b MultiSet.Set[Record]) (MultiSet.Set[Record], error) {
	switch key {
	case "id":
		return s.byID.Except(a, b), nil
	case "handle":
		return s.byHandle.Except(a, b), nil
	case "email":
		return s.byEmail.Except(a, b), nil
	}
	return MultiSet.Set[Record]{}, errors.Errorf("unknown key %q (keys: %s)", key, s.keyNames())
}

func writeRecords(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
