package modelfile

import (
	"fmt"
	"io"

	"imfit-model/internal/domain"
)

// Write emits m in the configuration grammar, ending with a newline.
// Parse(Write(m)) yields a model equal to m.
func Write(w io.Writer, m *domain.Model) error {
	_, err := fmt.Fprintln(w, m.String())
	return err
}
