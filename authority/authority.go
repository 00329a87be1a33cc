// Package authority opens venue QR codes on the server authority side.
package authority

import (
	"context"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/clea/contact"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

// PublicFailureMessage is shown to users for any rejected code.
const PublicFailureMessage = "invalid or expired code"

var ErrServerAuthorityKeyEmpty = errors.Key("authority: server authority private key is empty")

// Config holds the authority keys. ManualContactTracingKey is optional;
// without it sealed contacts are returned undecrypted.
type Config struct {
	ServerAuthorityKey      *ecies.PrivateKey
	ManualContactTracingKey *ecies.PrivateKey
}

// Decoded is an opened QR code.
type Decoded struct {
	LSP     lsp.LocationSpecificPart
	Contact *contact.LocationContact
}

// Result is the outcome of one DecodeAll input, at the input's index.
type Result struct {
	Decoded
	Err error
}

// Authority decodes deep links. It is safe for concurrent use.
type Authority struct {
	decoder      *lsp.Decoder
	contactCodec *contact.Codec
	mcta         *ecies.PrivateKey
	pool         *ants.Pool
	logger       *log.Logger
}

// New creates an authority with a worker pool sized by WithConcurrency.
func New(cfg Config, opts ...Option) (*Authority, error) {
	if cfg.ServerAuthorityKey == nil {
		return nil, ErrServerAuthorityKeyEmpty
	}

	o := newOptions(opts)

	pool, err := ants.NewPool(o.concurrency, ants.WithPreAlloc(true))
	if err != nil {
		return nil, errors.Internal("authority: create worker pool").WithCause(err)
	}

	return &Authority{
		decoder: lsp.NewDecoder(o.engine, cfg.ServerAuthorityKey,
			lsp.WithProtocol(o.protocol),
			lsp.WithDecodeValidation(o.decodeValidation),
		),
		contactCodec: contact.NewCodec(o.engine),
		mcta:         cfg.ManualContactTracingKey,
		pool:         pool,
		logger:       o.logger,
	}, nil
}

// Decode opens a deep link or bare base64 payload. A sealed contact is
// opened when the manual contact tracing key is configured.
func (a *Authority) Decode(link string) (Decoded, error) {
	wire, err := parse(link)
	if err != nil {
		return Decoded{}, err
	}

	p, err := a.decoder.Decode(wire)
	if err != nil {
		a.logger.Debug().Int("code", errors.Code(err)).Msg("location specific part rejected")
		return Decoded{}, err
	}

	out := Decoded{LSP: p}
	if p.HasContact() && a.mcta != nil {
		c, err := a.contactCodec.Decrypt(p.EncryptedContact, a.mcta)
		if err != nil {
			a.logger.Debug().Int("code", errors.Code(err)).Msg("location contact rejected")
			return Decoded{}, err
		}
		out.Contact = &c
	}

	a.logger.Debug().
		Str("ltid", p.TemporaryPublicID.String()).
		Bool("contact", out.Contact != nil).
		Msg("location specific part decoded")

	return out, nil
}

// DecodeAll decodes links on the worker pool. Results keep the input order.
// Once ctx is done no more links are submitted; their results carry the
// context error, which DecodeAll also returns.
func (a *Authority) DecodeAll(ctx context.Context, links []string) ([]Result, error) {
	results := make([]Result, len(links))
	var wg sync.WaitGroup

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(links); j++ {
				results[j].Err = err
			}
			break
		}

		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			d, err := a.Decode(link)
			results[i] = Result{Decoded: d, Err: err}
		})
		if err != nil {
			wg.Done()
			results[i].Err = errors.Internal("authority: submit decode").WithCause(err)
		}
	}

	wg.Wait()
	return results, ctx.Err()
}

// Close releases the worker pool.
func (a *Authority) Close() {
	a.pool.Release()
}

// PublicMessage returns the user-facing text for a decode outcome. All
// failures map to the same text.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	return PublicFailureMessage
}

func parse(link string) ([]byte, error) {
	link = strings.TrimSpace(link)
	if strings.Contains(link, "://") {
		return location.ParseDeepLink(link)
	}
	return lsp.DecodeString(link)
}
