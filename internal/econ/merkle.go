package econ

import (
	"encoding/binary"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// HashSettlementEntry computes the leaf hash for one settlement entry: a
// domain-separated digest over its recipient, amount, and source payment
// ids, so two entries with the same totals but different provenance
// never collide.
func HashSettlementEntry(e ndltypes.SettlementEntry) ndlcrypto.Hash {
	buf := make([]byte, 0, len(e.Recipient)+8+32*len(e.SourcePaymentIDs))
	buf = append(buf, []byte(e.Recipient)...)
	var amountBytes [8]byte
	binary.BigEndian.PutUint64(amountBytes[:], e.Amount)
	buf = append(buf, amountBytes[:]...)
	for _, id := range e.SourcePaymentIDs {
		buf = append(buf, id[:]...)
	}
	return ndlcrypto.ContentHash(buf)
}

// ComputeMerkleRoot builds a deterministic binary Merkle tree over a
// settlement batch's entries. An odd node at any level is promoted
// unchanged to the next level rather than duplicated, so batches that
// differ only by entry count never collide with a duplicated-leaf
// construction.
func ComputeMerkleRoot(entries []ndltypes.SettlementEntry) ndlcrypto.Hash {
	if len(entries) == 0 {
		return ndlcrypto.Hash{}
	}
	level := make([]ndlcrypto.Hash, len(entries))
	for i, e := range entries {
		level[i] = HashSettlementEntry(e)
	}
	return reduceMerkleLevel(level)
}

func reduceMerkleLevel(level []ndlcrypto.Hash) ndlcrypto.Hash {
	for len(level) > 1 {
		next := make([]ndlcrypto.Hash, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, hashPair(level[i], level[i+1]))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}

func hashPair(left, right ndlcrypto.Hash) ndlcrypto.Hash {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return ndlcrypto.ContentHash(buf)
}

// MerkleProof is an inclusion proof for one entry in a settlement batch:
// the sibling hash at each level and whether that sibling sits to the
// left. A promoted odd node has no sibling at that level and contributes
// no step to the proof.
type MerkleProof struct {
	Siblings  []ndlcrypto.Hash
	LeftSides []bool
}

// CreateMerkleProof builds an inclusion proof for entries[index].
func CreateMerkleProof(entries []ndltypes.SettlementEntry, index int) (MerkleProof, error) {
	if len(entries) == 0 {
		return MerkleProof{}, ErrEmptyEntries
	}
	if index < 0 || index >= len(entries) {
		return MerkleProof{}, ErrIndexOutOfBounds
	}

	level := make([]ndlcrypto.Hash, len(entries))
	for i, e := range entries {
		level[i] = HashSettlementEntry(e)
	}

	var proof MerkleProof
	idx := index
	for len(level) > 1 {
		next := make([]ndlcrypto.Hash, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			if i == idx || i+1 == idx {
				if i == idx {
					proof.Siblings = append(proof.Siblings, level[i+1])
					proof.LeftSides = append(proof.LeftSides, false)
				} else {
					proof.Siblings = append(proof.Siblings, level[i])
					proof.LeftSides = append(proof.LeftSides, true)
				}
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		idx = idx / 2
		level = next
	}
	return proof, nil
}

// VerifyMerkleProof checks that entry combines with proof's siblings to
// reach root.
func VerifyMerkleProof(root ndlcrypto.Hash, entry ndltypes.SettlementEntry, proof MerkleProof) bool {
	current := HashSettlementEntry(entry)
	for i, sibling := range proof.Siblings {
		if proof.LeftSides[i] {
			current = hashPair(sibling, current)
		} else {
			current = hashPair(current, sibling)
		}
	}
	return current == root
}

// ComputeBatchID derives a settlement batch's content-addressed id from
// its Merkle root and entry count.
func ComputeBatchID(entries []ndltypes.SettlementEntry) ndlcrypto.Hash {
	root := ComputeMerkleRoot(entries)
	buf := make([]byte, 0, 32+8)
	buf = append(buf, root[:]...)
	var countBytes [8]byte
	binary.BigEndian.PutUint64(countBytes[:], uint64(len(entries)))
	buf = append(buf, countBytes[:]...)
	return ndlcrypto.ContentHash(buf)
}
