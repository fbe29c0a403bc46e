package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-ext/internal/abi"
	extlog "github.com/reglet-dev/reglet-ext/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// HostModuleName is the name of the host function module extensions import from.
const HostModuleName = "ext_host"

// maxLogMessageSize bounds the payload log_message reads from guest memory.
const maxLogMessageSize = 64 * 1024

// BuiltinModuleNames returns the names of the modules the host provides itself.
func BuiltinModuleNames() []string {
	return []string{wasi_snapshot_preview1.ModuleName, HostModuleName}
}

// RegisterHostModules instantiates WASI and the ext_host module on rt.
//
// ext_host exports:
//
//	log_message(packed i64)  ; upper 32 bits pointer, lower 32 bits length of
//	                         ; a JSON log.LogMessageWire payload
func RegisterHostModules(ctx context.Context, rt wazero.Runtime, logger *slog.Logger) error {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	_, err := rt.NewHostModuleBuilder(HostModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			logGuestMessage(ctx, logger, mod, stack[0])
		}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{}).
		Export("log_message").
		Instantiate(ctx)
	return err
}

func logGuestMessage(ctx context.Context, logger *slog.Logger, mod api.Module, packed uint64) {
	ptr, length, err := abi.UnpackPtrLen(packed)
	if err != nil {
		logger.WarnContext(ctx, "Invalid extension log message", "module", mod.Name(), "error", err)
		return
	}
	if length > maxLogMessageSize {
		logger.WarnContext(ctx, "Extension log message too large", "module", mod.Name(), "size", length)
		return
	}
	mem := mod.Memory()
	if mem == nil {
		return
	}
	payload, ok := mem.Read(ptr, length)
	if !ok {
		return
	}

	msg, err := extlog.DecodeLogMessage(payload)
	if err != nil {
		logger.InfoContext(ctx, "Extension log (raw)", "module", mod.Name(), "payload", string(payload))
		return
	}
	attrs := append(msg.SlogAttrs(), slog.String("module", mod.Name()))
	logger.LogAttrs(ctx, msg.SlogLevel(), msg.Message, attrs...)
}
