package main

import (
	"fmt"
	"syscall/js"
)

type fetchResult struct {
	data []byte
	err  error
}

// fetchGet retrieves the full contents of path via the browser fetch API.
// A non-2xx response fails with the HTTP status, so the load error shown to
// the user names the actual cause instead of a generic fetch failure.
func fetchGet(path string) ([]byte, error) {
	ch := make(chan fetchResult, 1)
	js.Global().Call("fetch", path).Call("then",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			resp := args[0]
			if !resp.Get("ok").Bool() {
				ch <- fetchResult{err: fmt.Errorf("fetch %s: %s (%d)",
					path, resp.Get("statusText").String(), resp.Get("status").Int())}
				return nil
			}
			resp.Call("arrayBuffer").Call("then",
				js.FuncOf(func(this js.Value, args []js.Value) interface{} {
					src := js.Global().Get("Uint8Array").New(args[0])
					b := make([]byte, src.Get("byteLength").Int())
					js.CopyBytesToGo(b, src)
					ch <- fetchResult{data: b}
					return nil
				}),
				js.FuncOf(func(this js.Value, args []js.Value) interface{} {
					ch <- fetchResult{err: fmt.Errorf("fetch %s: reading body failed", path)}
					return nil
				}),
			)
			return nil
		}),
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			ch <- fetchResult{err: fmt.Errorf("fetch %s: network error", path)}
			return nil
		}),
	)

	res := <-ch
	return res.data, res.err
}
