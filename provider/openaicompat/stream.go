package openaicompat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/pkg/slogx"
	"github.com/casualjim/genwire/pkg/sse"
	"github.com/casualjim/genwire/pkg/toolcall"
	"github.com/casualjim/genwire/provider"
)

const maxLoggedPayload = 512

var _ provider.Stream = (*stream)(nil)

// stream is one streaming session. It owns its framer and accumulator, so
// nothing is shared between concurrent requests.
type stream struct {
	ctx    context.Context
	body   io.ReadCloser
	frames *sse.Decoder
	calls  toolcall.Accumulator
	logger *slog.Logger

	pending []canonical.Response
	current canonical.Response
	err     error
	done    bool

	closeOnce sync.Once
	closeErr  error
}

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *stream {
	return &stream{
		ctx:    ctx,
		body:   body,
		frames: sse.NewDecoder(body),
		logger: logger,
	}
}

func (s *stream) Next() bool {
	for len(s.pending) == 0 {
		if s.done {
			return false
		}
		if err := s.ctx.Err(); err != nil {
			s.fail(err)
			return false
		}

		payload, err := s.frames.Next()
		if errors.Is(err, io.EOF) {
			s.done = true
			s.Close()
			return false
		}
		if err != nil {
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			s.fail(err)
			return false
		}

		events, err := decodeFrame(payload)
		if err != nil {
			s.logger.Debug("dropping frame", slogx.Truncated("payload", payload, maxLoggedPayload), slogx.Error(err))
			continue
		}
		for _, ev := range events {
			s.handle(ev)
		}
	}

	s.current = s.pending[0]
	s.pending[0] = canonical.Response{}
	s.pending = s.pending[1:]
	return true
}

func (s *stream) handle(ev event) {
	switch ev := ev.(type) {
	case contentDelta:
		s.pending = append(s.pending, canonical.TextDelta(ev.Text))
	case toolCallDelta:
		s.calls.Merge(ev.Delta)
	case finish:
		calls := s.calls.Flush()
		parts := make([]canonical.Part, 0, len(calls))
		for _, c := range calls {
			parts = append(parts, canonical.FunctionCallPart{
				ID:   c.ID,
				Name: c.Name,
				Args: decodeArgs(s.logger, c.Name, c.Arguments),
			})
		}
		s.pending = append(s.pending, canonical.ModelResponse(canonical.NormalizeFinishReason(ev.Reason), parts...))
	}
}

func (s *stream) fail(err error) {
	s.err = err
	s.done = true
	s.pending = nil
	s.Close()
}

func (s *stream) Current() canonical.Response {
	return s.current
}

func (s *stream) Err() error {
	return s.err
}

func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
