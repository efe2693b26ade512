package spantypes

// BinData holds a raw binary blob for values that need to round-trip through the
// content engine. The json extensions hexify this data for transport, while BSON
// stores it as a native Binary primitive of subtype 0x0.
type BinData []byte
