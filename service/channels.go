package service

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"

	"github.com/cbsinteractive/keyframes/channel"
	"github.com/cbsinteractive/keyframes/db"
	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/cbsinteractive/keyframes/timeline"
	"github.com/gofrs/uuid"
)

// CreateChannelRequest is the body of POST /channels. Kind may be omitted
// for well-known channel names.
type CreateChannelRequest struct {
	ID   string        `json:"id,omitempty"`
	Name string        `json:"name"`
	Kind keyframe.Kind `json:"kind,omitempty"`
}

// KeyframeRequest is the optional body of POST /channels/{id}/keyframes/{t}.
// Without a body a default keyframe is added.
type KeyframeRequest struct {
	ColorLabel uint8           `json:"colorLabel,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// ChannelResponse describes a stored channel.
type ChannelResponse struct {
	*db.Channel
	Hash int `json:"hash"`

	// Invalidated lists the frame spans reported by the channel while
	// handling a mutation.
	Invalidated []timeline.Span `json:"invalidated,omitempty"`
}

// TimeResponse answers the active, previous and next queries.
type TimeResponse struct {
	Time int  `json:"time"`
	OK   bool `json:"ok"`
}

// SpanResponse answers the span and identical queries.
type SpanResponse struct {
	timeline.Span
	FromTimecode string `json:"fromTimecode,omitempty"`
	ToTimecode   string `json:"toTimecode,omitempty"`
}

func (s *Server) spanResponse(sp timeline.Span) SpanResponse {
	r := SpanResponse{Span: sp}
	r.FromTimecode, r.ToTimecode = sp.Timecodes(s.Config.FPS)
	return r
}

// load fetches a channel document and builds the channel from it. The
// checksum of the stored document is returned so unchanged channels are
// not written back.
func (s *Server) load(id string) (ch *channel.Channel, sum uint64, err error) {
	defer s.trace("channel-load", &err)()
	doc, err := s.DB.Get(s.request.ctx, id)
	if err != nil {
		return nil, 0, err
	}
	sum, err = doc.Checksum()
	if err != nil {
		return nil, 0, err
	}
	ch, err = channel.FromDocument(doc, channel.WithLogger(s.logger.WithField("doc", id)))
	return ch, sum, err
}

func (s *Server) save(id string, ch *channel.Channel, before uint64) (doc *db.Channel, err error) {
	defer s.trace("channel-save", &err)()
	if doc, err = ch.Document(); err != nil {
		return nil, err
	}
	doc.ID = id
	if sum, err := doc.Checksum(); err == nil && sum == before {
		return doc, nil
	}
	return doc, s.DB.Put(s.request.ctx, doc)
}

func (s *Server) createChannel() bool {
	var req CreateChannelRequest
	if !s.request.UnmarshalJSON(&req) {
		return s.writeerror("bad channel request", http.StatusBadRequest, s.err)
	}
	id, ok := channel.Known(req.Name)
	if !ok {
		if req.Name == "" || req.Kind == "" {
			return s.writeerror("name and kind are required for custom channels", http.StatusBadRequest, nil)
		}
		id = channel.ID{ID: req.Name, Name: req.Name, Kind: req.Kind}
	}
	ch, err := channel.New(id, channel.WithLogger(s.logger))
	if err != nil {
		return s.writeerror("creating channel failed", http.StatusBadRequest, err)
	}

	if req.ID == "" {
		u, err := uuid.NewV4()
		if err != nil {
			return s.writeerror("generating channel id failed", http.StatusInternalServerError, err)
		}
		req.ID = u.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.DB.Get(s.request.ctx, req.ID); err == nil {
		return s.writeerror("channel already exists", http.StatusConflict, nil)
	} else if !errors.Is(err, db.ErrChannelNotFound) {
		return s.storageError("create channel failed", err)
	}
	doc, err := s.save(req.ID, ch, 0)
	if err != nil {
		return s.storageError("create channel failed", err)
	}
	s.status = http.StatusCreated
	s.w.Header().Set("Content-Type", "application/json")
	s.w.WriteHeader(http.StatusCreated)
	return s.writebody(ChannelResponse{Channel: doc, Hash: ch.Hash()})
}

func (s *Server) listChannels() bool {
	ids, err := s.DB.List(s.request.ctx)
	if err != nil {
		return s.storageError("list channels failed", err)
	}
	return s.writebody(map[string][]string{"channels": ids})
}

func (s *Server) getChannel(id string) bool {
	ch, _, err := s.load(id)
	if err != nil {
		return s.storageError("get channel failed", err)
	}
	doc, err := ch.Document()
	if err != nil {
		return s.writeerror("encoding channel failed", http.StatusInternalServerError, err)
	}
	doc.ID = id
	return s.writebody(ChannelResponse{Channel: doc, Hash: ch.Hash()})
}

func (s *Server) deleteChannel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.DB.Delete(s.request.ctx, id); err != nil {
		return s.storageError("delete channel failed", err)
	}
	return s.writebody(map[string]string{"deleted": id})
}

func (s *Server) keyframeTimes(id string) bool {
	ch, _, err := s.load(id)
	if err != nil {
		return s.storageError("get keyframes failed", err)
	}
	return s.writebody(map[string][]int{"times": ch.KeyframeTimes()})
}

// mutate runs fn on the channel id and stores the result, answering with
// the new document and the spans the channel reported as invalidated.
func (s *Server) mutate(id, what string, fn func(ch *channel.Channel) (code int, err error)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, sum, err := s.load(id)
	if err != nil {
		return s.storageError(what+" failed", err)
	}
	var spans []timeline.Span
	unsubscribe := ch.Subscribe(channel.Funcs{OnUpdated: func(_ *channel.Channel, sp timeline.Span) {
		spans = append(spans, sp)
	}})
	code, err := fn(ch)
	unsubscribe()
	if err != nil {
		return s.writeerror(what+" failed", code, err)
	}

	doc, err := s.save(id, ch, sum)
	if err != nil {
		return s.storageError(what+" failed", err)
	}
	return s.writebody(ChannelResponse{Channel: doc, Hash: ch.Hash(), Invalidated: spans})
}

var errNoKeyframe = errors.New("no keyframe at this time")

func (s *Server) insertKeyframe(id string, t int) bool {
	body := s.Body()
	if !s.ok() {
		return s.writeerror("reading body failed", http.StatusBadRequest, s.err)
	}
	var req *KeyframeRequest
	if len(body) != 0 {
		req = &KeyframeRequest{}
		if err := json.Unmarshal(body, req); err != nil {
			return s.writeerror("bad keyframe request", http.StatusBadRequest, err)
		}
	}
	return s.mutate(id, "insert keyframe", func(ch *channel.Channel) (int, error) {
		if req == nil {
			ch.AddKeyframe(t)
			return 0, nil
		}
		codec, err := keyframe.Lookup(ch.ID().Kind)
		if err != nil {
			return http.StatusInternalServerError, err
		}
		k, err := codec.Unmarshal(req.Payload)
		if err != nil {
			return http.StatusBadRequest, err
		}
		k.SetColorLabel(req.ColorLabel)
		ch.InsertKeyframe(t, k)
		return 0, nil
	})
}

func (s *Server) removeKeyframe(id string, t int) bool {
	return s.mutate(id, "remove keyframe", func(ch *channel.Channel) (int, error) {
		if ch.KeyframeAt(t) == nil {
			return http.StatusNotFound, errNoKeyframe
		}
		ch.RemoveKeyframe(t)
		return 0, nil
	})
}

func (s *Server) query(id, op string, t int) bool {
	ch, _, err := s.load(id)
	if err != nil {
		return s.storageError(op+" query failed", err)
	}
	var r TimeResponse
	switch op {
	case "active":
		r.Time, r.OK = ch.ActiveKeyframeTime(t)
	case "previous":
		r.Time, r.OK = ch.PreviousKeyframeTime(t)
	case "next":
		r.Time, r.OK = ch.NextKeyframeTime(t)
	case "span":
		return s.writebody(s.spanResponse(ch.AffectedFrames(t)))
	case "identical":
		return s.writebody(s.spanResponse(ch.IdenticalFrames(t)))
	}
	return s.writebody(r)
}

func (s *Server) getXML(id string) bool {
	ch, _, err := s.load(id)
	if err != nil {
		return s.storageError("get channel failed", err)
	}
	doc, err := ch.Document()
	if err != nil {
		return s.writeerror("encoding channel failed", http.StatusInternalServerError, err)
	}
	doc.ID = id
	data, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return s.writeerror("encoding channel failed", http.StatusInternalServerError, err)
	}
	return s.writebody(append([]byte(xml.Header), data...), "application/xml")
}

// putXML replaces the channel id with an XML channel document. Legacy
// documents are sanitized while loading.
func (s *Server) putXML(id string) bool {
	body := s.Body()
	if !s.ok() {
		return s.writeerror("reading body failed", http.StatusBadRequest, s.err)
	}
	var doc db.Channel
	if err := xml.Unmarshal(body, &doc); err != nil {
		return s.writeerror("bad channel document", http.StatusBadRequest, err)
	}
	if doc.Name == "" {
		return s.writeerror("channel name is required", http.StatusBadRequest, nil)
	}
	ch, err := channel.FromDocument(&doc, channel.WithLogger(s.logger.WithField("doc", id)))
	if err != nil {
		return s.writeerror("bad channel document", http.StatusBadRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	saved, err := s.save(id, ch, 0)
	if err != nil {
		return s.storageError("put channel failed", err)
	}
	return s.writebody(ChannelResponse{Channel: saved, Hash: ch.Hash()})
}
