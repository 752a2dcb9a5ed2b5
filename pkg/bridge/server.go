package bridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
	"github.com/Lucasmercado101/mecamatic/pkg/metrics"
	"github.com/Lucasmercado101/mecamatic/pkg/shell"
)

// DefaultWorkers is the number of requests handled concurrently.
const DefaultWorkers = 4

// maxFrameSize bounds a single request line.
const maxFrameSize = 1 << 20

// View is the screen the front-end reported last.
type View int

const (
	ViewWelcome View = iota
	ViewMain
)

// Server answers frames against a shell.
type Server struct {
	shell   *shell.Shell
	workers int

	outMu sync.Mutex
	out   io.Writer

	viewMu sync.Mutex
	view   View
}

// Option configures a Server.
type Option func(*Server)

// WithWorkers sets how many requests are handled at once.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewServer creates a server over sh.
func NewServer(sh *shell.Shell, opts ...Option) *Server {
	s := &Server{shell: sh, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View returns the view the front-end is on.
func (s *Server) View() View {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	return s.view
}

func (s *Server) setView(v View) {
	s.viewMu.Lock()
	s.view = v
	s.viewMu.Unlock()
}

// Serve reads frames from r and writes replies to w until r is exhausted or
// ctx is cancelled. Replies may arrive out of request order; the id ties
// them together.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.outMu.Lock()
	s.out = w
	s.outMu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	// The scanner cannot be interrupted, so it lives outside the group and
	// ends when r is closed or the group stops receiving.
	go func() {
		defer close(lines)
		readErr <- readFrames(gctx, r, lines)
	}()

	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if err := s.handleLine(gctx, line); err != nil {
						return err
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("reading frames: %w", err)
		}
	default:
	}
	return nil
}

// readFrames sends each non-empty line of r to lines. It returns when r is
// exhausted or ctx is done, whichever comes first.
func readFrames(ctx context.Context, r io.Reader, lines chan<- []byte) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return nil
		}
	}
	return scanner.Err()
}

// handleLine decodes one request and writes its reply. Only write failures
// are returned; request failures become error frames.
func (s *Server) handleLine(ctx context.Context, line []byte) error {
	var req Frame
	if err := json.Unmarshal(line, &req); err != nil {
		debug.Log("bridge: malformed frame: %v", err)
		return s.write(Frame{Error: &WireError{Kind: KindBadRequest, Message: err.Error()}})
	}
	reply, ok := s.Handle(ctx, req)
	if !ok {
		return nil
	}
	return s.write(reply)
}

// Handle answers a single request. ok is false for requests that carry no
// id and therefore expect no reply.
func (s *Server) Handle(ctx context.Context, req Frame) (reply Frame, ok bool) {
	defer debug.LogEnterExit("bridge " + req.Channel)()
	defer metrics.Timer(metrics.BridgeRequest)()

	payload, err := s.dispatch(ctx, req)
	if err != nil {
		debug.Log("bridge %s: %v", req.Channel, err)
		metrics.BridgeErrors.Inc()
		if len(req.ID) == 0 {
			return Frame{}, false
		}
		return errorFrame(req, err), true
	}
	if len(req.ID) == 0 {
		return Frame{}, false
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errorFrame(req, fmt.Errorf("encoding reply: %w", err)), true
	}
	return Frame{ID: req.ID, Channel: req.Channel, Payload: data}, true
}

func (s *Server) dispatch(ctx context.Context, req Frame) (any, error) {
	switch req.Channel {
	case ChannelLoadProfileNames:
		return s.shell.ProfileNames(ctx)

	case ChannelLoadUserData:
		var name string
		if err := decode(req.Payload, &name); err != nil {
			return nil, err
		}
		return s.shell.LoadSettings(ctx, name)

	case ChannelSaveSettings:
		var p SaveSettingsRequest
		if err := decode(req.Payload, &p); err != nil {
			return nil, err
		}
		if err := s.shell.SaveSettings(ctx, p.UserName, p.Settings); err != nil {
			return nil, err
		}
		return p.Settings, nil

	case ChannelSelectedUserName:
		var name string
		if len(req.Payload) > 0 {
			if err := decode(req.Payload, &name); err != nil {
				return nil, err
			}
		}
		deleted, err := s.shell.DeleteProfile(ctx, name)
		if err != nil {
			return nil, err
		}
		names, err := s.shell.ProfileNames(ctx)
		if err != nil {
			return nil, err
		}
		return DeleteResult{Deleted: deleted, Profiles: names}, nil

	case ChannelMainView:
		s.setView(ViewMain)
		tree, err := s.shell.Menu(ctx)
		if err != nil {
			return nil, err
		}
		return tree.Items(), nil

	case ChannelWelcomeView:
		s.setView(ViewWelcome)
		return menu.WelcomeMenu(), nil

	case ChannelExercisePicked:
		return s.exercise(ctx, req, s.shell.Open)

	case ChannelNextExercise:
		return s.exercise(ctx, req, s.shell.Next)

	case ChannelPrevExercise:
		return s.exercise(ctx, req, s.shell.Previous)

	default:
		return nil, fmt.Errorf("%w: unknown channel %q", errBadRequest, req.Channel)
	}
}

type resolveFunc func(context.Context, lesson.Position) (lesson.Exercise, error)

func (s *Server) exercise(ctx context.Context, req Frame, resolve resolveFunc) (any, error) {
	var p ExerciseRequest
	if err := decode(req.Payload, &p); err != nil {
		return nil, err
	}
	ex, err := resolve(ctx, p.Position())
	if err != nil {
		return nil, err
	}
	return ex.DTO(), nil
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", errBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// Push sends an event frame. It fails when Serve has not started.
func (s *Server) Push(channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", channel, err)
	}
	return s.write(Frame{Channel: channel, Payload: data})
}

// WatchLessons reloads the shell when the lesson tree changes and pushes
// the rebuilt main-view menu. The returned stop function ends watching.
func (s *Server) WatchLessons(ctx context.Context) (stop func(), err error) {
	w, err := s.shell.Watch(ctx, func() {
		tree, err := s.shell.Menu(ctx)
		if err != nil {
			debug.Log("bridge: rebuilding menu: %v", err)
			return
		}
		if err := s.Push(EventLessonsChanged, tree.Items()); err != nil {
			debug.Log("bridge: push: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return w.Stop, nil
}

var errNotServing = errors.New("bridge is not serving")

func (s *Server) write(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	data = append(data, '\n')

	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.out == nil {
		return errNotServing
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
