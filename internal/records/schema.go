package records

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSrc string

// schema checks raw stored bytes against #Records.
//
// A cue.Context is not safe for concurrent use, so checks are serialized.
type schema struct {
	mu      sync.Mutex
	ctx     *cue.Context
	records cue.Value
}

func compileSchema() (*schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile record schema: %s", cueerrors.Details(err, nil))
	}
	records := v.LookupPath(cue.ParsePath("#Records"))
	if err := records.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Records: %w", err)
	}
	return &schema{ctx: ctx, records: records}, nil
}

// mustCompileSchema panics when the embedded schema is broken, which is a
// build defect rather than a runtime condition.
func mustCompileSchema() *schema {
	s, err := compileSchema()
	if err != nil {
		panic(err)
	}
	return s
}

// check validates raw JSON against #Records. The input must already be
// syntactically valid JSON.
func (s *schema) check(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ctx.CompileBytes(raw, cue.Filename("stored.json"))
	if err := data.Err(); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	if err := s.records.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}
