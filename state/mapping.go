// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/kv"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a typed view over one bucket of the state, values are RLP encoded.
type Mapping[K Key, V any] struct {
	state  *State
	bucket kv.Bucket
}

func NewMapping[K Key, V any](state *State, bucket kv.Bucket) *Mapping[K, V] {
	return &Mapping[K, V]{state: state, bucket: bucket}
}

// Get decodes the value for key. exist is false, and value the zero value, if absent.
// For pointer value types, a fresh instance is returned on every call.
func (m *Mapping[K, V]) Get(key K) (value V, exist bool, err error) {
	err = m.state.DecodeStorage(m.bucket.Key(key.Bytes()), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		exist = true
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
			return rlp.DecodeBytes(raw, value)
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.state.EncodeStorage(m.bucket.Key(key.Bytes()), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.state.Delete(m.bucket.Key(key.Bytes()))
}
