//go:build js && wasm

// Command wasm is the browser runtime: it drives the #loading element and
// persists saves in localStorage. Page code reaches both through the
// global dontlookdown object.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/yoanbernabeu/dontlookdown/app"
	"github.com/yoanbernabeu/dontlookdown/loading"
	"github.com/yoanbernabeu/dontlookdown/save"
)

func main() {
	display, err := loading.NewDOMDisplay(loading.DefaultElementID)
	if err != nil {
		panic(err)
	}
	backend, err := save.NewLocalStorageBackend()
	if err != nil {
		panic(err)
	}
	a, err := app.NewWithBackend(save.DefaultNamespace, backend, display)
	if err != nil {
		panic(err)
	}

	js.Global().Set("dontlookdown", exports(a))

	select {}
}

// exports builds the JS object. Values cross the boundary as JSON text so
// the page keeps using plain JSON.parse/JSON.stringify semantics. A Go
// callback cannot throw, so failures are returned as Error objects.
func exports(a *app.App) js.Value {
	ctx := context.Background()
	obj := js.Global().Get("Object").New()

	obj.Set("complete", js.FuncOf(func(this js.Value, args []js.Value) any {
		a.Loading.Complete()
		return nil
	}))

	obj.Set("save", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return jsError("save(key, data) requires two arguments")
		}
		text, err := stringify(args[1])
		if err != nil {
			return jsError(err.Error())
		}
		if err := a.Saves.SaveRaw(ctx, args[0].String(), []byte(text)); err != nil {
			return jsError(err.Error())
		}
		return nil
	}))

	obj.Set("load", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return jsError("load(key) requires a key")
		}
		raw, ok, err := a.Saves.LoadRaw(ctx, args[0].String())
		if err != nil {
			return jsError(err.Error())
		}
		if !ok {
			return js.Null()
		}
		if !json.Valid(raw) {
			return jsError("stored value for " + args[0].String() + " is not valid JSON")
		}
		return js.Global().Get("JSON").Call("parse", string(raw))
	}))

	obj.Set("delete", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return jsError("delete(key) requires a key")
		}
		if err := a.Saves.Delete(ctx, args[0].String()); err != nil {
			return jsError(err.Error())
		}
		return nil
	}))

	return obj
}

func jsError(msg string) any {
	return js.Global().Get("Error").New(msg)
}

// stringify runs JSON.stringify, turning its TypeError on cyclic or
// BigInt values into a Go error.
func stringify(v js.Value) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	res := js.Global().Get("JSON").Call("stringify", v)
	if res.IsUndefined() {
		return "", errors.New("value is not JSON-serializable")
	}
	return res.String(), nil
}
