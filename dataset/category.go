package dataset

// Category classifies the kind of payload a Container carries. It is used as
// a dispatch key by loader and transform registries.
type Category string

const (
	Tabular  Category = "tabular"
	Text     Category = "text"
	Document Category = "document"
	Image    Category = "image"
	Mixed    Category = "mixed"
)

// Categories returns every known category in a fixed order.
func Categories() []Category {
	return []Category{Tabular, Text, Document, Image, Mixed}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Tabular, Text, Document, Image, Mixed:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
