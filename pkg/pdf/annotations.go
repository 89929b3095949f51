package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// Subtypes that are not user annotations
var hiddenAnnotationSubtypes = map[string]bool{
	"Popup":  true,
	"Link":   true,
	"Widget": true,
}

// parseAnnotations reads the /Annots array of a page. Annotations that fail
// to decode are reported as skipped objects.
func parseAnnotations(r resolver, pageDict types.Dict) ([]AnnotationObject, []SkippedObject) {
	annots, err := r.array(pageDict["Annots"])
	if err != nil {
		return nil, []SkippedObject{{Kind: ObjectTypeAnno, Index: -1, Err: errors.Wrap(err, "Annots")}}
	}

	var result []AnnotationObject
	var skipped []SkippedObject
	for i, obj := range annots {
		annot, visible, err := parseAnnotation(r, obj)
		if err != nil {
			skipped = append(skipped, SkippedObject{Kind: ObjectTypeAnno, Index: i, Err: err})
			continue
		}
		if visible {
			result = append(result, annot)
		}
	}
	return result, skipped
}

// parseAnnotation decodes one annotation dictionary. visible is false for
// popups, links and form widgets.
func parseAnnotation(r resolver, obj types.Object) (annot AnnotationObject, visible bool, err error) {
	d, err := r.dict(obj)
	if err != nil {
		return annot, false, err
	}
	if d == nil {
		return annot, false, errors.New("empty annotation")
	}

	subtype, ok := r.name(d["Subtype"])
	if !ok {
		return annot, false, errors.New("annotation without /Subtype")
	}
	if hiddenAnnotationSubtypes[subtype] {
		return annot, false, nil
	}

	rect := r.numbers(d["Rect"])
	if len(rect) != 4 {
		return annot, false, errors.Errorf("%s annotation: invalid /Rect", subtype)
	}
	box := NewBoundingBox(rect[0], rect[1], rect[2], rect[3])

	annot = AnnotationObject{
		Kind:          ParseAnnotationKind(subtype),
		X0:            box.X0,
		Y0:            box.Y0,
		X1:            box.X1,
		Y1:            box.Y1,
		Color:         r.color(d["C"]),
		InteriorColor: r.color(d["IC"]),
	}
	annot.QuadBoxes = quadBoxes(r.numbers(d["QuadPoints"]))
	annot.Contents, _ = r.text(d["Contents"])
	annot.Author, _ = r.text(d["T"])
	if m, ok := r.text(d["M"]); ok {
		annot.Modified = parsePDFDate(m)
	}

	return annot, true, nil
}

// quadBoxes converts /QuadPoints (x1 y1 ... x4 y4 per quad) into boxes
func quadBoxes(q []float64) []BoundingBox {
	var boxes []BoundingBox
	for i := 0; i+8 <= len(q); i += 8 {
		box := NewBoundingBox(q[i], q[i+1], q[i+2], q[i+3])
		box = box.Union(NewBoundingBox(q[i+4], q[i+5], q[i+6], q[i+7]))
		boxes = append(boxes, box)
	}
	return boxes
}
