// Package tool maps pointer gestures onto pixart edits.
//
// A Session owns one document and its undo history. The host application
// forwards pointer events in canvas coordinates:
//
//	ctx := tool.NewContext(tool.WithColor(pixart.Red))
//	s := tool.NewSession(img, ctx)
//	s.SetTool(tool.Paintbrush)
//	s.Press(10, 10)
//	s.Drag(40, 25)
//	s.Release(40, 25)
//	_, err := s.Image().Sync(texture)
//
// Each completed gesture with a mutating tool becomes one undo step.
package tool
