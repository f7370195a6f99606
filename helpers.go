package dds

import (
	"github.com/samber/lo"

	"github.com/greenstonesoft/greenstone-dds-sub002/builtin"
	"github.com/greenstonesoft/greenstone-dds-sub002/rtps"
	"github.com/greenstonesoft/greenstone-dds-sub002/wire"
)

func peerID() (wire.PeerID, error) {
	prefix, err := rtps.NewGuidPrefix(rtps.VendorIDGreen)
	if err != nil {
		return wire.PeerID{}, err
	}
	return wire.PeerID(prefix), nil
}

func kindsToWire(kinds []builtin.Kind) []wire.Kind {
	return lo.Map(lo.Uniq(kinds), func(k builtin.Kind, _ int) wire.Kind {
		return wire.Kind(k)
	})
}
