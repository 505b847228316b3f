// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth recovers and checks the callers of signed operation requests.
package auth

import (
	"crypto/ecdsa"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/clock"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/thor"
)

var logger = log.WithContext("pkg", "auth")

// MaxLifetime bounds how far in the future a request may expire, in seconds.
const MaxLifetime uint64 = 3600

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrExpired          = errors.New("request expired")
	ErrReplayed         = errors.New("request replayed")
	ErrBusy             = errors.New("too many live requests")
)

// Request is an operation request signed by its caller.
type Request struct {
	Op        string
	Pool      thor.Address
	Args      []byte
	Nonce     uint64
	Expiry    uint64
	Signature []byte
}

// SigningHash returns the hash the caller signs. The domain keeps signatures
// of one deployment from being replayed on another.
func (r *Request) SigningHash(domain thor.Bytes32) thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			domain,
			r.Op,
			r.Pool,
			r.Args,
			r.Nonce,
			r.Expiry,
		})
	})
}

// Sign signs the request with the given private key.
func Sign(r *Request, domain thor.Bytes32, key *ecdsa.PrivateKey) error {
	hash := r.SigningHash(domain)
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return errors.Wrap(err, "sign request")
	}
	r.Signature = sig
	return nil
}

// Verifier extracts signers from requests and rejects expired or replayed ones.
type Verifier struct {
	domain  thor.Bytes32
	clock   clock.Source
	signers *cache.LRU
	limit   int

	mu   sync.Mutex
	seen map[thor.Bytes32]uint64 // signing hash => expiry
}

// NewVerifier creates a verifier. cacheSize bounds both the signer cache
// and the number of consumed requests that have not expired yet.
func NewVerifier(domain thor.Bytes32, clk clock.Source, cacheSize int) (*Verifier, error) {
	signers, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		domain:  domain,
		clock:   clk,
		signers: signers,
		limit:   cacheSize,
		seen:    make(map[thor.Bytes32]uint64),
	}, nil
}

// Domain returns the domain requests are signed for.
func (v *Verifier) Domain() thor.Bytes32 {
	return v.domain
}

// Signer recovers the signer of the request.
func (v *Verifier) Signer(r *Request) (thor.Address, error) {
	hash := r.SigningHash(v.domain)
	key := string(hash[:]) + string(r.Signature)

	signer, err := v.signers.GetOrLoad(key, func(any) (any, error) {
		if len(r.Signature) != crypto.SignatureLength {
			return nil, errors.WithMessagef(ErrInvalidSignature, "length %d", len(r.Signature))
		}
		pub, err := crypto.SigToPub(hash[:], r.Signature)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidSignature, err.Error())
		}
		return thor.Address(crypto.PubkeyToAddress(*pub)), nil
	})
	if err != nil {
		return thor.Address{}, err
	}
	return signer.(thor.Address), nil
}

// Verify checks the request is live and unused, then consumes it and
// returns its signer.
func (v *Verifier) Verify(r *Request) (thor.Address, error) {
	now := v.clock.Now()
	if r.Expiry < now {
		return thor.Address{}, errors.WithMessagef(ErrExpired, "expiry %d, now %d", r.Expiry, now)
	}
	if r.Expiry-now > MaxLifetime {
		return thor.Address{}, errors.WithMessagef(ErrExpired, "expiry %d beyond %ds", r.Expiry, MaxLifetime)
	}

	signer, err := v.Signer(r)
	if err != nil {
		return thor.Address{}, err
	}

	hash := r.SigningHash(v.domain)
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[hash]; ok {
		return thor.Address{}, errors.WithMessagef(ErrReplayed, "nonce %d", r.Nonce)
	}
	if len(v.seen) >= v.limit {
		v.wash(now)
		if len(v.seen) >= v.limit {
			metricBusy().Add(1)
			return thor.Address{}, errors.WithMessagef(ErrBusy, "%d live requests", len(v.seen))
		}
	}
	v.seen[hash] = r.Expiry
	metricLiveRequests().Set(int64(len(v.seen)))
	return signer, nil
}

// wash drops consumed requests that can no longer pass the expiry check.
func (v *Verifier) wash(now uint64) {
	for hash, expiry := range v.seen {
		if expiry < now {
			delete(v.seen, hash)
		}
	}
	logger.Debug("washed consumed requests", "live", len(v.seen))
}
