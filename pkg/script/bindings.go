package script

import (
	"fmt"

	"github.com/dop251/goja"

	"vexlayout/pkg/cursor"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/view"
)

func requireArgs(vm *goja.Runtime, call goja.FunctionCall, name string, n int) {
	if len(call.Arguments) < n {
		panic(vm.NewTypeError(fmt.Sprintf("Failed to execute '%s': %d argument(s) required", name, n)))
	}
}

func intArg(call goja.FunctionCall, i int) int {
	return int(call.Argument(i).ToInteger())
}

// throw turns a Go error into a JavaScript exception.
func throw(vm *goja.Runtime, err error) {
	if err != nil {
		panic(vm.NewGoError(err))
	}
}

func rangeObject(vm *goja.Runtime, r dom.Range) goja.Value {
	obj := vm.NewObject()
	obj.Set("start", r.Start)
	obj.Set("end", r.End)
	return obj
}

func registerDocument(vm *goja.Runtime, v *view.View) {
	doc := v.Document()
	docObj := vm.NewObject()

	docObj.Set("length", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.Length())
	})
	docObj.Set("text", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return vm.ToValue(doc.Text())
		}
		start, end := intArg(call, 0), intArg(call, 1)
		if end < start {
			panic(vm.NewTypeError(fmt.Sprintf("Failed to execute 'text': end %d before start %d", end, start)))
		}
		return vm.ToValue(doc.TextIn(dom.NewRange(start, end)))
	})
	docObj.Set("toString", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.String())
	})
	docObj.Set("insertText", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "insertText", 2)
		throw(vm, v.InsertText(intArg(call, 0), call.Argument(1).String()))
		return goja.Undefined()
	})
	docObj.Set("insertElement", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "insertElement", 2)
		el, err := v.InsertElement(intArg(call, 0), call.Argument(1).String())
		throw(vm, err)
		obj := rangeObject(vm, el.Range()).(*goja.Object)
		obj.Set("name", el.Name())
		return obj
	})
	docObj.Set("delete", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "delete", 2)
		start, end := intArg(call, 0), intArg(call, 1)
		if end < start {
			panic(vm.NewTypeError(fmt.Sprintf("Failed to execute 'delete': end %d before start %d", end, start)))
		}
		throw(vm, v.Delete(dom.NewRange(start, end)))
		return goja.Undefined()
	})
	docObj.Set("boxAt", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "boxAt", 2)
		box := v.BoxAt(intArg(call, 0), intArg(call, 1))
		if box == nil {
			return goja.Null()
		}
		return rangeObject(vm, box.Range())
	})

	vm.Set("document", docObj)
}

var simpleMoves = map[string]cursor.Move{
	"Left":          cursor.MoveLeft{},
	"Right":         cursor.MoveRight{},
	"Up":            cursor.MoveUp{},
	"Down":          cursor.MoveDown{},
	"LineStart":     cursor.MoveToLineStart{},
	"LineEnd":       cursor.MoveToLineEnd{},
	"NextWord":      cursor.MoveToNextWord{},
	"PreviousWord":  cursor.MoveToPreviousWord{},
	"DocumentStart": cursor.MoveToDocumentStart{},
	"DocumentEnd":   cursor.MoveToDocumentEnd{},
}

func registerCursor(vm *goja.Runtime, v *view.View) {
	cur := vm.NewObject()

	for name, m := range simpleMoves {
		cur.Set("move"+name, func(goja.FunctionCall) goja.Value {
			return vm.ToValue(v.Move(m).String())
		})
		cur.Set("select"+name, func(goja.FunctionCall) goja.Value {
			return vm.ToValue(v.Select(m).String())
		})
	}
	cur.Set("moveTo", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "moveTo", 1)
		return vm.ToValue(v.Move(cursor.MoveToOffset{Offset: intArg(call, 0)}).String())
	})
	cur.Set("selectTo", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "selectTo", 1)
		return vm.ToValue(v.Select(cursor.MoveToOffset{Offset: intArg(call, 0)}).String())
	})
	cur.Set("click", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "click", 2)
		m := cursor.MoveToAbsoluteCoordinates{X: intArg(call, 0), Y: intArg(call, 1)}
		return vm.ToValue(v.Move(m).String())
	})
	cur.Set("shiftClick", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "shiftClick", 2)
		m := cursor.MoveToAbsoluteCoordinates{X: intArg(call, 0), Y: intArg(call, 1)}
		return vm.ToValue(v.Select(m).String())
	})
	cur.Set("selection", func(goja.FunctionCall) goja.Value {
		r, ok := v.Selection()
		if !ok {
			return goja.Null()
		}
		return rangeObject(vm, r)
	})
	cur.Set("type", func(call goja.FunctionCall) goja.Value {
		requireArgs(vm, call, "type", 1)
		throw(vm, v.Type(call.Argument(0).String()))
		return goja.Undefined()
	})
	cur.Set("deleteSelection", func(goja.FunctionCall) goja.Value {
		throw(vm, v.DeleteSelection())
		return goja.Undefined()
	})
	cur.Set("setOverwrite", func(call goja.FunctionCall) goja.Value {
		v.SetOverwrite(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	cur.DefineAccessorProperty("offset", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(v.Offset())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("cursor", cur)
}
