// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

var auctionRecordPrefix = []byte("auction-record")

// AuctionRecordKey is the storage key of the record under the auction module.
func AuctionRecordKey(auction meter.Address) meter.Bytes32 {
	return meter.Blake2b(auctionRecordPrefix, auction[:])
}

// GetAuctionRecord returns nil if no record was stored for the address.
func (s *State) GetAuctionRecord(auction meter.Address) (result *meter.AuctionRecord) {
	s.DecodeStorage(meter.AuctionModuleAddr, AuctionRecordKey(auction), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var r meter.AuctionRecord
		if err := rlp.DecodeBytes(raw, &r); err != nil {
			s.logger.Error("could not decode auction record", "auction", auction, "err", err)
			return err
		}
		result = &r
		return nil
	})
	return
}

func (s *State) SetAuctionRecord(r *meter.AuctionRecord) {
	s.EncodeStorage(meter.AuctionModuleAddr, AuctionRecordKey(r.Address), func() ([]byte, error) {
		return rlp.EncodeToBytes(r)
	})
}
