package png

import (
	"io"

	"github.com/pkg/errors"

	"github.com/hx2a/imgmeta/driver"
)

func init() {
	driver.RegisterContainerFormat("png", string(signature[:]), newContainer)
}

// container adapts Png to driver.Container.
type container struct {
	png *Png
}

func newContainer() driver.Container {
	return &container{}
}

func (c *container) Parse(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "png: reading input")
	}
	p, err := Decode(data)
	if err != nil {
		return err
	}
	c.png = p
	return nil
}

func (c *container) WriteTo(w io.Writer) error {
	_, err := w.Write(Encode(c.png))
	return err
}

// Png exposes the decoded chunk list for callers that want to use
// GetText/SetText without reaching into the container's internals.
func (c *container) Png() *Png { return c.png }
