package jpeg

import (
	"io"

	"github.com/pkg/errors"

	"github.com/hx2a/imgmeta/driver"
)

func init() {
	driver.RegisterContainerFormat("jpeg", "\xff\xd8\xff", newContainer)
}

// container adapts Jpg to driver.Container so it can be recognized and
// parsed by driver.NewContainer alongside other registered formats.
type container struct {
	jpg *Jpg
}

func newContainer() driver.Container {
	return &container{}
}

func (c *container) Parse(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "jpeg: reading input")
	}
	j, err := Decode(data)
	if err != nil {
		return err
	}
	c.jpg = j
	return nil
}

func (c *container) WriteTo(w io.Writer) error {
	_, err := w.Write(Encode(c.jpg))
	return err
}

// Jpg exposes the decoded segment list so callers can reach
// DecodeExif/UpdateExif without reaching into the container's internals.
func (c *container) Jpg() *Jpg { return c.jpg }
