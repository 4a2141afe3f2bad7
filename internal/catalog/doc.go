// Package catalog holds the fixed tables of legal capture parameters.
//
// Each parameter the interactive surface can edit (resolution, codec,
// bitrate, encoder preset) has exactly one ordered catalog here. Cycling is
// the only edit primitive: callers seed from the active value with IndexOf
// and advance with Cycle, wrapping at the end of the table. Values loaded
// from an existing configuration record may fall outside these tables; that
// is tolerated, and cycling such a value starts from the first entry.
package catalog
