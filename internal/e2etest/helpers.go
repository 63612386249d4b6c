package e2etest

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// FindInputForLabel resolves the input or textarea a label describes, the way
// a browser would: through the label's for attribute, or by nesting.
func FindInputForLabel(form *goquery.Selection, labelText string) (*goquery.Selection, error) {
	label := form.Find(fmt.Sprintf("label:contains('%s')", labelText))
	if label.Length() == 0 {
		return nil, fmt.Errorf("no label matching %q", labelText)
	}

	var field *goquery.Selection
	if id, hasFor := label.Attr("for"); hasFor {
		field = form.Find(fmt.Sprintf("input#%s,textarea#%s", id, id))
	} else {
		field = label.Find("input")
	}
	if field.Length() == 0 {
		return nil, fmt.Errorf("label %q describes no input", labelText)
	}

	return field, nil
}

// FindSelectForLabel resolves the select element a label describes.
func FindSelectForLabel(form *goquery.Selection, labelText string) (*goquery.Selection, error) {
	label := form.Find(fmt.Sprintf("label:contains('%s')", labelText))
	if label.Length() == 0 {
		return nil, fmt.Errorf("no label matching %q", labelText)
	}

	var field *goquery.Selection
	if id, hasFor := label.Attr("for"); hasFor {
		field = form.Find(fmt.Sprintf("select#%s", id))
	} else {
		field = label.Find("select")
	}
	if field.Length() == 0 {
		return nil, fmt.Errorf("label %q describes no select", labelText)
	}

	return field, nil
}

// IsMultipleSelect reports whether a select element accepts multiple values,
// like the equipment and secondary muscle group pickers.
func IsMultipleSelect(selectElement *goquery.Selection) bool {
	_, multiple := selectElement.Attr("multiple")
	return multiple
}

// FindForm locates the form posting to the given action path.
func FindForm(doc *goquery.Document, formActionURLPath string) (*goquery.Selection, error) {
	form := doc.Find(fmt.Sprintf("form[action='%s']", formActionURLPath))
	if form.Length() == 0 {
		return nil, fmt.Errorf("no form posting to %s", formActionURLPath)
	}
	return form, nil
}
