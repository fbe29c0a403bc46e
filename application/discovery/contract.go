package discovery

import (
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// StartupSignature is the shape of a startup participant: no parameters and
// an i32 status result, zero meaning success.
var StartupSignature = entities.Signature{Results: []entities.ValueType{entities.ValueTypeI32}}

// SignatureContract accepts symbols whose signature matches exactly.
type SignatureContract struct {
	name      string
	signature entities.Signature
}

// NewSignatureContract creates a contract named name requiring sig.
func NewSignatureContract(name string, sig entities.Signature) *SignatureContract {
	return &SignatureContract{name: name, signature: sig}
}

// StartupContract returns the default startup participant contract.
func StartupContract() ports.CapabilityContract {
	return NewSignatureContract("startup", StartupSignature)
}

func (c *SignatureContract) Name() string { return c.name }

// Satisfied reports whether sym has the required signature.
func (c *SignatureContract) Satisfied(sym ports.Symbol) bool {
	return sym != nil && sym.Signature().Equal(c.signature)
}
