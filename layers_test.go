package paint

import (
	"errors"
	"image"
	"testing"
)

func TestAddLayerNames(t *testing.T) {
	ed := newEditor(t, 4, 4)
	id, err := ed.AddLayer("")
	if err != nil {
		t.Fatal(err)
	}
	info, _ := ed.Layer(id)
	if info.Name != "Layer 1" {
		t.Errorf("AddLayer(\"\").Name = %q, want %q", info.Name, "Layer 1")
	}
	if ed.ActiveLayer() != id {
		t.Error("new layer is not active")
	}

	named, _ := ed.AddLayer("ink")
	layers := ed.Layers()
	if layers[len(layers)-1].ID != named {
		t.Error("AddLayer did not insert above the active layer")
	}
}

func TestLayerNotFound(t *testing.T) {
	ed := newEditor(t, 4, 4)
	const missing LayerID = "missing"
	tests := []struct {
		name string
		fn   func() error
	}{
		{"Layer", func() error { _, err := ed.Layer(missing); return err }},
		{"SetActiveLayer", func() error { return ed.SetActiveLayer(missing) }},
		{"DeleteLayer", func() error { return ed.DeleteLayer(missing) }},
		{"MoveLayer", func() error { return ed.MoveLayer(missing, 0) }},
		{"MergeDown", func() error { return ed.MergeDown(missing) }},
		{"Fill", func() error { return ed.Fill(missing, Red) }},
		{"RenameLayer", func() error { return ed.RenameLayer(missing, "x") }},
		{"SetLayerOpacity", func() error { return ed.SetLayerOpacity(missing, 1) }},
		{"LayerImage", func() error { _, err := ed.LayerImage(missing); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrLayerNotFound) {
				t.Errorf("%s() error = %v, want ErrLayerNotFound", tt.name, err)
			}
		})
	}
}

func TestDeleteLastLayer(t *testing.T) {
	ed := newEditor(t, 4, 4)
	layers := ed.Layers()
	if err := ed.DeleteLayer(layers[1].ID); err != nil {
		t.Fatal(err)
	}
	if ed.ActiveLayer() != layers[0].ID {
		t.Error("active layer not moved to the remaining layer")
	}
	if err := ed.DeleteLayer(layers[0].ID); !errors.Is(err, ErrLastLayer) {
		t.Errorf("DeleteLayer(last) error = %v, want ErrLastLayer", err)
	}
}

func TestMoveLayerClamps(t *testing.T) {
	ed := newEditor(t, 4, 4)
	top := ed.ActiveLayer()
	if err := ed.MoveLayer(top, -5); err != nil {
		t.Fatal(err)
	}
	if ed.Layers()[0].ID != top {
		t.Error("MoveLayer(-5) did not move the layer to the bottom")
	}
	if err := ed.MoveLayer(top, 99); err != nil {
		t.Fatal(err)
	}
	if ed.Layers()[1].ID != top {
		t.Error("MoveLayer(99) did not move the layer to the top")
	}
}

func TestMergeDown(t *testing.T) {
	ed := newEditor(t, 4, 4, WithBackground(Red))
	layers := ed.Layers()
	bg, top := layers[0].ID, layers[1].ID
	_ = ed.Fill(top, Blue)
	_ = ed.SetLayerOpacity(top, 0.5)
	before, _ := ed.PickColor(2, 2)

	if err := ed.MergeDown(top); err != nil {
		t.Fatal(err)
	}
	if n := len(ed.Layers()); n != 1 {
		t.Fatalf("len(Layers()) = %d, want 1", n)
	}
	if ed.ActiveLayer() != bg {
		t.Error("merged layer is not active")
	}
	after, _ := ed.PickColor(2, 2)
	if !nearColor(before, after) {
		t.Errorf("PickColor() after merge = %v, want %v", after, before)
	}
	if ed.CanUndo() {
		t.Error("CanUndo() = true after MergeDown")
	}

	if err := ed.MergeDown(bg); !errors.Is(err, ErrNoLayerBelow) {
		t.Errorf("MergeDown(bottom) error = %v, want ErrNoLayerBelow", err)
	}
	if err := ed.DeleteLayer(bg); !errors.Is(err, ErrLastLayer) {
		t.Errorf("DeleteLayer(last) error = %v, want ErrLastLayer", err)
	}
}

func TestHiddenLayerIsSkipped(t *testing.T) {
	ed := newEditor(t, 4, 4)
	id := ed.ActiveLayer()
	_ = ed.Fill(id, Blue)
	_ = ed.SetLayerVisible(id, false)
	if c, _ := ed.PickColor(0, 0); c != White {
		t.Errorf("PickColor() = %v, want white", c)
	}
}

func TestSetLayerOpacityClamps(t *testing.T) {
	ed := newEditor(t, 4, 4)
	id := ed.ActiveLayer()
	for _, tt := range []struct{ in, want float32 }{{-1, 0}, {0.25, 0.25}, {3, 1}} {
		_ = ed.SetLayerOpacity(id, tt.in)
		info, _ := ed.Layer(id)
		if info.Opacity != tt.want {
			t.Errorf("SetLayerOpacity(%v) = %v, want %v", tt.in, info.Opacity, tt.want)
		}
	}
}

func TestImportLayer(t *testing.T) {
	ed := newEditor(t, 8, 8)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Pix[1], img.Pix[2] = 0, 0 // (0,0) red
	id, err := ed.ImportLayer("photo", img)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := ed.LayerImage(id)
	if got.Rect.Dx() != 2 {
		t.Errorf("imported width = %d, want 2", got.Rect.Dx())
	}
	if c, _ := ed.PickColor(0, 0); c != Red {
		t.Errorf("PickColor(0, 0) = %v, want red", c)
	}
}

func TestSelectRectModes(t *testing.T) {
	ed := newEditor(t, 16, 16)
	if ed.HasSelection() {
		t.Fatal("new editor has a selection")
	}

	ed.SelectRect(image.Rect(2, 2, 10, 10), SelectAdd)
	if got, want := ed.SelectionBounds(), image.Rect(2, 2, 10, 10); got != want {
		t.Errorf("SelectionBounds() = %v, want %v", got, want)
	}

	ed.SelectRect(image.Rect(2, 6, 10, 10), SelectSubtract)
	if got, want := ed.SelectionBounds(), image.Rect(2, 2, 10, 6); got != want {
		t.Errorf("SelectionBounds() after subtract = %v, want %v", got, want)
	}

	ed.InvertSelection()
	if got, want := ed.SelectionBounds(), image.Rect(0, 0, 16, 16); got != want {
		t.Errorf("SelectionBounds() after invert = %v, want %v", got, want)
	}

	ed.SelectAll()
	ed.SelectRect(image.Rect(0, 0, 16, 16), SelectSubtract)
	if ed.HasSelection() {
		t.Error("HasSelection() = true after subtracting everything")
	}

	ed.SelectRect(image.Rect(1, 1, 3, 3), SelectAdd)
	ed.ClearSelection()
	if ed.HasSelection() {
		t.Error("HasSelection() = true after ClearSelection")
	}
}

func TestExtractSelection(t *testing.T) {
	ed := newEditor(t, 8, 8)
	src := ed.ActiveLayer()
	_ = ed.Fill(src, Blue)
	ed.SelectRect(image.Rect(0, 0, 4, 8), SelectAdd)

	id, err := ed.ExtractSelection()
	if err != nil {
		t.Fatal(err)
	}
	if ed.ActiveLayer() != id {
		t.Error("extracted layer is not active")
	}
	info, _ := ed.Layer(id)
	srcInfo, _ := ed.Layer(src)
	if want := srcInfo.Name + " (selection)"; info.Name != want {
		t.Errorf("extracted layer name = %q, want %q", info.Name, want)
	}

	cut, _ := ed.LayerImage(id)
	rest, _ := ed.LayerImage(src)
	if cut.NRGBAAt(1, 1).A != 255 || cut.NRGBAAt(6, 1).A != 0 {
		t.Error("extracted layer does not hold exactly the selected pixels")
	}
	if rest.NRGBAAt(1, 1).A != 0 || rest.NRGBAAt(6, 1).A != 255 {
		t.Error("source layer still holds the selected pixels")
	}
	// The composite is unchanged by the move.
	if c, _ := ed.PickColor(1, 1); c != Blue {
		t.Errorf("PickColor(1, 1) = %v, want blue", c)
	}

	if !ed.Undo() {
		t.Fatal("Undo() = false after ExtractSelection")
	}
	rest, _ = ed.LayerImage(src)
	if rest.NRGBAAt(1, 1).A != 255 {
		t.Error("Undo did not restore the cut pixels")
	}
}

func TestExtractSelectionWithoutSelection(t *testing.T) {
	ed := newEditor(t, 4, 4)
	if _, err := ed.ExtractSelection(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ExtractSelection() error = %v, want ErrNoSelection", err)
	}
}

func TestPlacedLayerStroke(t *testing.T) {
	ed := newEditor(t, 32, 32)
	id := ed.ActiveLayer()
	_ = ed.SetLayerPlacement(id, Placement{Position: Pt(10, 0), Size: Pt(32, 32)})

	drag(ed, Pt(14, 8), Pt(16, 8))
	frame(t, ed)

	img, _ := ed.LayerImage(id)
	if img.NRGBAAt(6, 8).A == 0 {
		t.Error("stroke not mapped into layer space")
	}
	if img.NRGBAAt(16, 8).A != 0 {
		t.Error("stroke painted at canvas coordinates")
	}
}
