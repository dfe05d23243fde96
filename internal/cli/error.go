package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/halverin/relgen/internal/relerr"
)

// FormatError renders an error in the rustc-inspired layout:
//
//	error[E3001]: no adapter registered for dialect
//	  dialect: oracle
//	  help: supported dialects: sqlite, mysql, postgres
//
// Plain errors get the simple "error: ..." prefix.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var re *relerr.Error
	if !errors.As(err, &re) {
		return Error("error") + ": " + err.Error()
	}

	var b strings.Builder
	b.WriteString(Error("error"))
	b.WriteString(Code(fmt.Sprintf("[%s]", re.GetCode())))
	b.WriteString(": ")
	b.WriteString(re.GetMessage())

	ctx := re.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if k == "helps" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("\n  %s %s: %v", Dim("-->"), k, ctx[k]))
	}

	if cause := errors.Unwrap(re); cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s %v", Dim("caused by:"), cause))
	}

	if helps, ok := ctx["helps"].([]string); ok {
		for _, h := range helps {
			b.WriteString("\n  " + Help("help") + ": " + h)
		}
	}

	return b.String()
}
