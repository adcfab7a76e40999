package fill

import "testing"

// WHAT: Scan over a representative form snapshot.
// WHY: every downstream heuristic keys off the descriptors built here;
// a mis-scanned kind or label silently breaks matching.
func TestScan_Controls(t *testing.T) {
	src := `<form>
		<label for="fn">First Name</label>
		<input id="fn" name="first_name" type="text">
		<input type="hidden" name="csrf" value="x">
		<input type="submit" value="Go">
		<textarea name="cover">existing</textarea>
		<select name="country">
			<option value="">Select...</option>
			<option value="us">United States</option>
		</select>
		<input type="file" name="upload" accept=".pdf,.doc">
	</form>`

	controls, err := ScanHTML(src)
	if err != nil {
		t.Fatalf("ScanHTML: %v", err)
	}
	if len(controls) != 4 {
		t.Fatalf("got %d controls, want 4 (hidden and submit skipped): %+v", len(controls), controls)
	}

	if controls[0].Kind != KindText || controls[0].Label != "First Name" {
		t.Errorf("text control = %+v, want KindText with label %q", controls[0], "First Name")
	}
	if controls[1].Kind != KindTextarea || controls[1].Value != "existing" {
		t.Errorf("textarea = %+v, want KindTextarea with value %q", controls[1], "existing")
	}
	if controls[2].Kind != KindSelect || len(controls[2].Options) != 2 {
		t.Errorf("select = %+v, want KindSelect with 2 options", controls[2])
	}
	if controls[2].Options[1].Value != "us" || controls[2].Options[1].Text != "United States" {
		t.Errorf("option = %+v", controls[2].Options[1])
	}
	if controls[3].Kind != KindFile || controls[3].Accept != ".pdf,.doc" {
		t.Errorf("file = %+v, want KindFile with accept preserved", controls[3])
	}
}

// WHAT: TagIndex counts all same-tag elements in document order.
// WHY: the apply step addresses controls by getElementsByTagName index;
// skipped hidden inputs must still advance the counter.
func TestScan_TagIndexCountsSkippedInputs(t *testing.T) {
	src := `<form>
		<input type="hidden" name="h">
		<input type="text" name="email">
	</form>`
	controls, err := ScanHTML(src)
	if err != nil {
		t.Fatalf("ScanHTML: %v", err)
	}
	if len(controls) != 1 {
		t.Fatalf("got %d controls, want 1", len(controls))
	}
	if controls[0].TagIndex != 1 {
		t.Errorf("TagIndex = %d, want 1 (hidden input occupies slot 0)", controls[0].TagIndex)
	}
}

// WHAT: label resolution priority: label[for] > wrapping label > short parent text.
func TestScan_LabelResolution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "explicit for binding",
			src:  `<label for="a">Email Address</label><div><input id="a" name="x"></div>`,
			want: "Email Address",
		},
		{
			name: "wrapping label",
			src:  `<label>Phone <input name="x"></label>`,
			want: "Phone",
		},
		{
			name: "short parent text",
			src:  `<div>Zip code <input name="x"></div>`,
			want: "Zip code",
		},
		{
			name: "long parent text ignored",
			src:  `<div>` + longText + `<input name="x"></div>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controls, err := ScanHTML(tt.src)
			if err != nil {
				t.Fatalf("ScanHTML: %v", err)
			}
			if len(controls) != 1 {
				t.Fatalf("got %d controls, want 1", len(controls))
			}
			if controls[0].Label != tt.want {
				t.Errorf("Label = %q, want %q", controls[0].Label, tt.want)
			}
		})
	}
}

const longText = "This paragraph is well over fifty characters long and therefore not a label. "

// WHAT: input with no type attribute defaults to text.
func TestScan_DefaultInputType(t *testing.T) {
	controls, err := ScanHTML(`<input name="city">`)
	if err != nil {
		t.Fatalf("ScanHTML: %v", err)
	}
	if len(controls) != 1 || controls[0].Kind != KindText || controls[0].Type != "text" {
		t.Errorf("controls = %+v, want one KindText", controls)
	}
}
