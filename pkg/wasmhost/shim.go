package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Секции двоичного формата WebAssembly.
const (
	secType     = 0x01
	secImport   = 0x02
	secFunction = 0x03
	secExport   = 0x07
	secCode     = 0x0a

	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

// Shim возвращает гостевой модуль, который импортирует все функции host-модуля
// module и экспортирует по локальной обёртке на каждую: local.get 0..n-1; call i.
func Shim(module string) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	for _, f := range functions {
		types = append(types, 0x60)
		types = appendValueTypes(types, f.params)
		types = appendValueTypes(types, f.results)
	}
	out = appendSection(out, secType, len(functions), types)

	var imports []byte
	for i, f := range functions {
		imports = appendName(imports, module)
		imports = appendName(imports, f.name)
		imports = append(imports, 0x00)
		imports = appendU32(imports, uint32(i))
	}
	out = appendSection(out, secImport, len(functions), imports)

	var decls []byte
	for i := range functions {
		decls = appendU32(decls, uint32(i))
	}
	out = appendSection(out, secFunction, len(functions), decls)

	n := len(functions)
	var exports []byte
	for i, f := range functions {
		exports = appendName(exports, f.name)
		exports = append(exports, 0x00)
		exports = appendU32(exports, uint32(n+i))
	}
	out = appendSection(out, secExport, n, exports)

	var code []byte
	for i, f := range functions {
		body := []byte{0x00} // без локальных переменных
		for p := range f.params {
			body = append(body, opLocalGet)
			body = appendU32(body, uint32(p))
		}
		body = append(body, opCall)
		body = appendU32(body, uint32(i))
		body = append(body, opEnd)
		code = appendU32(code, uint32(len(body)))
		code = append(code, body...)
	}
	return appendSection(out, secCode, n, code)
}

// InstantiateShim собирает Shim для модуля module и создаёт его экземпляр под именем name.
// Host-модуль module должен быть уже зарегистрирован в r.
func InstantiateShim(ctx context.Context, r wazero.Runtime, module, name string) (api.Module, error) {
	if module == "" {
		module = ModuleName
	}
	return r.InstantiateWithConfig(ctx, Shim(module), wazero.NewModuleConfig().WithName(name))
}

func appendSection(out []byte, id byte, count int, payload []byte) []byte {
	content := appendU32(nil, uint32(count))
	content = append(content, payload...)
	out = append(out, id)
	out = appendU32(out, uint32(len(content)))
	return append(out, content...)
}

func appendValueTypes(out []byte, vts []api.ValueType) []byte {
	out = appendU32(out, uint32(len(vts)))
	return append(out, vts...)
}

func appendName(out []byte, s string) []byte {
	out = appendU32(out, uint32(len(s)))
	return append(out, s...)
}

// appendU32 — беззнаковый LEB128.
func appendU32(out []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}
