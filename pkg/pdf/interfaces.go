package pdf

// Document represents an opened PDF document
type Document interface {
	// GetMetadata returns the PDF metadata
	GetMetadata() Metadata

	// GetPage loads a specific page by index (0-based). A page that cannot
	// be loaded returns an error without affecting the other pages.
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single loaded page
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// GetObjects returns the characters, drawings and annotations of the page
	GetObjects() Objects

	// Spans returns the text spans in content order
	Spans() []TextSpan

	// Words returns the words in content order
	Words() []Word

	// TextInRect returns the text whose glyph centers lie inside bbox,
	// lines separated by newlines
	TextInRect(bbox BoundingBox) string

	// ExtractText extracts the text of the whole page
	ExtractText(opts ...TextExtractionOption) string
}

// Object represents a positioned page object
type Object interface {
	// GetType returns the object type
	GetType() ObjectType

	// GetBBox returns the object's bounding box
	GetBBox() BoundingBox
}
