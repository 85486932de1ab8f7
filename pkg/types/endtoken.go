package types

// EndToken overrides the tokens that stop decoding. A nil EndToken leaves
// the model's own terminator rules in place; any non-nil value replaces them
// entirely. The engine distinguishes "no override" from "override with an
// empty list", which is why absence is modeled as nil rather than an empty
// slice.
//
// The three concrete shapes are EndTokenSingle, EndTokenMultiple, and
// EndTokenIDs.
type EndToken interface {
	endToken()
}

// EndTokenSingle stops decoding on one terminator token.
type EndTokenSingle string

// EndTokenMultiple stops decoding on any of the listed terminator tokens.
type EndTokenMultiple []string

// EndTokenIDs stops decoding on any of the listed token ids.
type EndTokenIDs []int

func (EndTokenSingle) endToken()   {}
func (EndTokenMultiple) endToken() {}
func (EndTokenIDs) endToken()      {}
