package testutil

// WebAssembly value type encodings.
const (
	I32 byte = 0x7f
	I64 byte = 0x7e
	F32 byte = 0x7d
	F64 byte = 0x7c
)

// WasmFunc is one exported function of a generated module.
type WasmFunc struct {
	Name    string
	Params  []byte
	Results []byte
	// Body is the instruction sequence without the local declarations and
	// the final end opcode.
	Body []byte
}

// StartupFunc is a "() -> i32" export returning status.
// status must be in [0, 63] to fit one signed LEB128 byte.
func StartupFunc(name string, status byte) WasmFunc {
	return WasmFunc{
		Name:    name,
		Results: []byte{I32},
		Body:    []byte{0x41, status & 0x3f}, // i32.const status
	}
}

// VoidFunc is a "() -> ()" export with an empty body.
func VoidFunc(name string) WasmFunc {
	return WasmFunc{Name: name}
}

// UnaryFunc is an "(i64) -> ()" export with an empty body.
func UnaryFunc(name string) WasmFunc {
	return WasmFunc{Name: name, Params: []byte{I64}}
}

// BuildModule assembles a minimal valid wasm binary exporting funcs.
// Export names must be unique.
func BuildModule(funcs ...WasmFunc) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if len(funcs) == 0 {
		return out
	}

	var types, fns, exports, code []byte
	types = appendU32(types, uint32(len(funcs)))
	fns = appendU32(fns, uint32(len(funcs)))
	exports = appendU32(exports, uint32(len(funcs)))
	code = appendU32(code, uint32(len(funcs)))

	for i, f := range funcs {
		types = append(types, 0x60)
		types = appendVec(types, f.Params)
		types = appendVec(types, f.Results)

		fns = appendU32(fns, uint32(i))

		exports = appendVec(exports, []byte(f.Name))
		exports = append(exports, 0x00) // func
		exports = appendU32(exports, uint32(i))

		body := append([]byte{0x00}, f.Body...) // no locals
		body = append(body, 0x0b)               // end
		code = appendVec(code, body)
	}

	out = appendSection(out, 1, types)
	out = appendSection(out, 3, fns)
	out = appendSection(out, 7, exports)
	out = appendSection(out, 10, code)
	return out
}

// LogDataOffset is where BuildLoggingModule places its payload in memory.
const LogDataOffset = 16

// BuildLoggingModule assembles a module that imports ext_host.log_message and
// exports a "() -> i32" function name which logs payload and returns 0.
func BuildLoggingModule(name string, payload []byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	types := appendU32(nil, 2)
	types = append(types, 0x60)
	types = appendVec(types, []byte{I64})
	types = appendVec(types, nil)
	types = append(types, 0x60)
	types = appendVec(types, nil)
	types = appendVec(types, []byte{I32})

	imports := appendU32(nil, 1)
	imports = appendVec(imports, []byte("ext_host"))
	imports = appendVec(imports, []byte("log_message"))
	imports = append(imports, 0x00, 0x00) // func, type 0

	fns := appendU32(nil, 1)
	fns = appendU32(fns, 1)

	memory := []byte{0x01, 0x00, 0x01} // one memory, min 1 page

	exports := appendU32(nil, 2)
	exports = appendVec(exports, []byte(name))
	exports = append(exports, 0x00, 0x01) // func 1
	exports = appendVec(exports, []byte("memory"))
	exports = append(exports, 0x02, 0x00) // memory 0

	packed := int64(LogDataOffset)<<32 | int64(len(payload))
	body := []byte{0x00, 0x42} // no locals, i64.const
	body = appendS64(body, packed)
	body = append(body, 0x10, 0x00) // call log_message
	body = append(body, 0x41, 0x00) // i32.const 0
	body = append(body, 0x0b)
	code := appendU32(nil, 1)
	code = appendVec(code, body)

	data := appendU32(nil, 1)
	data = append(data, 0x00, 0x41, LogDataOffset, 0x0b) // memory 0 at i32.const offset
	data = appendVec(data, payload)

	out = appendSection(out, 1, types)
	out = appendSection(out, 2, imports)
	out = appendSection(out, 3, fns)
	out = appendSection(out, 5, memory)
	out = appendSection(out, 7, exports)
	out = appendSection(out, 10, code)
	out = appendSection(out, 11, data)
	return out
}

func appendSection(dst []byte, id byte, payload []byte) []byte {
	dst = append(dst, id)
	return appendVec(dst, payload)
}

func appendVec(dst []byte, data []byte) []byte {
	dst = appendU32(dst, uint32(len(data)))
	return append(dst, data...)
}

func appendU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

func appendS64(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
