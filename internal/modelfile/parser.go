// Package modelfile implements the imfit configuration-file grammar: a text
// codec round-tripping domain.Model instances. Parsing and emission are
// whole-document, blocking operations.
package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"imfit-model/internal/domain"
)

// ParseError reports a malformed line in a model configuration file.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Parse reads a model description in the imfit configuration format:
// option lines (KEY VALUE) ahead of the first X0, then per function set an
// X0/Y0 pair followed by FUNCTION blocks. A comment after a FUNCTION header
// is the function label; a comment after an X0 line is the set label
// (defaulting to fs0, fs1, ...).
func Parse(r io.Reader) (*domain.Model, error) {
	model := domain.NewModel()

	var (
		set      *domain.FunctionSet
		fn       *domain.Function
		haveY0   bool
		setCount int
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		code, comment := splitComment(scanner.Text())
		fields := strings.Fields(code)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "X0":
			if set != nil && !haveY0 {
				return nil, parseErrorf(lineNo, "function set %q has no Y0 line", set.Label())
			}
			label := comment
			if label == "" {
				label = fmt.Sprintf("fs%d", setCount)
			}
			set = domain.NewFunctionSet(label)
			setCount++
			haveY0 = false
			fn = nil
			if err := applyParamLine(set.X0(), fields, lineNo); err != nil {
				return nil, err
			}
			if err := model.AddFunctionSet(set); err != nil {
				return nil, parseErrorf(lineNo, "%v", err)
			}

		case "Y0":
			if set == nil {
				return nil, parseErrorf(lineNo, "Y0 line outside a function set")
			}
			if haveY0 {
				return nil, parseErrorf(lineNo, "duplicate Y0 line in set %q", set.Label())
			}
			if err := applyParamLine(set.Y0(), fields, lineNo); err != nil {
				return nil, err
			}
			haveY0 = true

		case "FUNCTION":
			if set == nil || !haveY0 {
				return nil, parseErrorf(lineNo, "FUNCTION header before X0/Y0 lines")
			}
			if len(fields) != 2 {
				return nil, parseErrorf(lineNo, "FUNCTION header needs exactly one function type")
			}
			fn = domain.NewFunction(fields[1], comment)
			if err := set.AddFunction(fn); err != nil {
				return nil, parseErrorf(lineNo, "%v", err)
			}

		default:
			if set == nil {
				// still in the option block
				if len(fields) != 2 {
					return nil, parseErrorf(lineNo, "option line must be KEY VALUE, got %d fields", len(fields))
				}
				value, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, parseErrorf(lineNo, "option %s: invalid value %q", fields[0], fields[1])
				}
				model.Options[fields[0]] = value
				continue
			}
			if !haveY0 {
				return nil, parseErrorf(lineNo, "expected Y0 line, got %q", fields[0])
			}
			if fn == nil {
				return nil, parseErrorf(lineNo, "parameter line %q outside a FUNCTION block", fields[0])
			}
			p := domain.NewParameter(fields[0], 0)
			if err := applyParamLine(p, fields, lineNo); err != nil {
				return nil, err
			}
			if err := fn.AddParameter(p); err != nil {
				return nil, parseErrorf(lineNo, "%v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if set != nil && !haveY0 {
		return nil, parseErrorf(lineNo, "function set %q has no Y0 line", set.Label())
	}
	return model, nil
}

// ParseFile reads a model description from a configuration file.
func ParseFile(path string) (*domain.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// applyParamLine parses "NAME VALUE [fixed|LOWER,UPPER]" into p.
func applyParamLine(p *domain.Parameter, fields []string, line int) error {
	if len(fields) < 2 || len(fields) > 3 {
		return parseErrorf(line, "parameter line %s must be NAME VALUE [fixed|LOWER,UPPER]", fields[0])
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return parseErrorf(line, "parameter %s: invalid value %q", fields[0], fields[1])
	}
	if len(fields) == 2 {
		return p.SetValue(value, false)
	}
	qualifier := fields[2]
	if qualifier == "fixed" {
		return p.SetValue(value, true)
	}
	lowStr, upStr, ok := strings.Cut(qualifier, ",")
	if !ok {
		return parseErrorf(line, "parameter %s: unrecognized qualifier %q", fields[0], qualifier)
	}
	lower, err1 := strconv.ParseFloat(lowStr, 64)
	upper, err2 := strconv.ParseFloat(upStr, 64)
	if err1 != nil || err2 != nil {
		return parseErrorf(line, "parameter %s: invalid limit pair %q", fields[0], qualifier)
	}
	if err := p.SetValue(value, false, lower, upper); err != nil {
		return parseErrorf(line, "parameter %s: %v", fields[0], err)
	}
	return nil
}

func splitComment(line string) (code, comment string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
