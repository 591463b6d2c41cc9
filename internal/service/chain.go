package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

// ChainNode is a Sent record annotated with its derived classification.
type ChainNode struct {
	model.Sent
	Kind model.Kind `json:"kind"`
}

// ChainView is the full result of reconstructing a chain from one node's
// perspective. All four slices are derived from a single fetched snapshot, so
// they can never disagree about which records exist.
type ChainView struct {
	Base             ChainNode   `json:"base"`
	PathFromRoot     []ChainNode `json:"path_from_root"`
	ForwardsFromThis []ChainNode `json:"forwards_from_this"`
	FullChain        []ChainNode `json:"full_chain"`
	HasReply         bool        `json:"has_reply"`
}

// ThreadNode is a chain node enriched for the thread timeline view.
type ThreadNode struct {
	model.Sent
	Kind       model.Kind `json:"kind"`
	HasForward bool       `json:"has_forward"`
}

// ThreadView is the whole thread in canonical order with per-node flags.
type ThreadView struct {
	ThreadID string       `json:"thread_id"`
	HasReply bool         `json:"has_reply"`
	Nodes    []ThreadNode `json:"nodes"`
}

// InboxResult is a page of records addressed to one receiver.
type InboxResult struct {
	Items []ChainNode `json:"data"`
	Total int         `json:"total"`
}

// ChainService reconstructs document chains and derives status flags from
// them. It is read-only.
type ChainService interface {
	// BuildChain reconstructs the thread around any node: the ancestor path
	// from the root, the node's direct successors, and the full flattened
	// thread in canonical order.
	BuildChain(ctx context.Context, sentID string) (*ChainView, error)

	// Thread returns the full thread containing the node, each entry
	// classified and flagged.
	Thread(ctx context.Context, sentID string) (*ThreadView, error)

	// History returns the append-only status audit trail of one record.
	History(ctx context.Context, sentID string) ([]model.SentStatusHistory, error)

	// Inbox returns a page of hand-offs addressed to the receiver.
	Inbox(ctx context.Context, receiverID string, limit, offset int) (*InboxResult, error)
}

type chainService struct {
	sents   repository.SentRepository
	history repository.StatusHistoryRepository
}

// NewChainService constructs a ChainService.
func NewChainService(sents repository.SentRepository, history repository.StatusHistoryRepository) ChainService {
	return &chainService{sents: sents, history: history}
}

// sortChain orders records canonically: depth ascending, then sentAt, then id
// as the final tiebreaker. This is the one ordering used for display and for
// reasoning about the most recent holder of a document.
func sortChain(items []model.Sent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Depth != items[j].Depth {
			return items[i].Depth < items[j].Depth
		}
		if !items[i].SentAt.Equal(items[j].SentAt) {
			return items[i].SentAt.Before(items[j].SentAt)
		}
		return items[i].ID < items[j].ID
	})
}

// pathFromRoot walks parent pointers from target up to the root inside the
// fetched snapshot and returns the path top-down. No storage access.
func pathFromRoot(items []model.Sent, targetID string) []model.Sent {
	byID := make(map[string]*model.Sent, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	var reversed []model.Sent
	for cur := byID[targetID]; cur != nil; {
		reversed = append(reversed, *cur)
		if cur.ParentSentID == nil {
			break
		}
		cur = byID[*cur.ParentSentID]
	}

	path := make([]model.Sent, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// childrenOf returns the direct successors of a node, preserving input order.
func childrenOf(items []model.Sent, parentID string) []model.Sent {
	children := make([]model.Sent, 0)
	for _, it := range items {
		if it.ParentSentID != nil && *it.ParentSentID == parentID {
			children = append(children, it)
		}
	}
	return children
}

// HasReply reports whether any node of the chain is a reply. A forward-only
// thread is not considered answered.
func HasReply(items []model.Sent) bool {
	for i := range items {
		if items[i].Kind() == model.KindReply {
			return true
		}
	}
	return false
}

// HasForward reports whether a direct child of sentID is a forward.
func HasForward(items []model.Sent, sentID string) bool {
	for _, child := range childrenOf(items, sentID) {
		if child.Kind() == model.KindForward {
			return true
		}
	}
	return false
}

// CurrentHolder returns the receiver of the last record in canonical order:
// where the document is right now. Empty for an empty chain.
func CurrentHolder(items []model.Sent) string {
	if len(items) == 0 {
		return ""
	}
	return items[len(items)-1].ReceiverID
}

func annotate(items []model.Sent) []ChainNode {
	nodes := make([]ChainNode, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, ChainNode{Sent: it, Kind: it.Kind()})
	}
	return nodes
}

func (s *chainService) fetchThread(ctx context.Context, sentID string) (*model.Sent, []model.Sent, error) {
	base, err := s.sents.FindByID(ctx, sentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, persistence("find sent", err)
	}

	items, err := s.sents.ListByThread(ctx, base.ThreadID)
	if err != nil {
		return nil, nil, persistence("list thread", err)
	}
	// The repository already orders rows, but the canonical order is this
	// layer's contract and must not depend on it.
	sortChain(items)
	return base, items, nil
}

func (s *chainService) BuildChain(ctx context.Context, sentID string) (*ChainView, error) {
	base, items, err := s.fetchThread(ctx, sentID)
	if err != nil {
		return nil, err
	}

	return &ChainView{
		Base:             ChainNode{Sent: *base, Kind: base.Kind()},
		PathFromRoot:     annotate(pathFromRoot(items, base.ID)),
		ForwardsFromThis: annotate(childrenOf(items, base.ID)),
		FullChain:        annotate(items),
		HasReply:         HasReply(items),
	}, nil
}

func (s *chainService) Thread(ctx context.Context, sentID string) (*ThreadView, error) {
	base, items, err := s.fetchThread(ctx, sentID)
	if err != nil {
		return nil, err
	}

	nodes := make([]ThreadNode, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, ThreadNode{
			Sent:       it,
			Kind:       it.Kind(),
			HasForward: HasForward(items, it.ID),
		})
	}

	return &ThreadView{
		ThreadID: base.ThreadID,
		HasReply: HasReply(items),
		Nodes:    nodes,
	}, nil
}

func (s *chainService) History(ctx context.Context, sentID string) ([]model.SentStatusHistory, error) {
	// Resolve the record first so an unknown id is a NotFound, not an empty list.
	if _, err := s.sents.FindByID(ctx, sentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistence("find sent", err)
	}

	rows, err := s.history.ListBySent(ctx, sentID)
	if err != nil {
		return nil, persistence("list status history", err)
	}
	return rows, nil
}

func (s *chainService) Inbox(ctx context.Context, receiverID string, limit, offset int) (*InboxResult, error) {
	if receiverID == "" {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.sents.ListByReceiver(ctx, receiverID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, persistence("list inbox", err)
	}
	return &InboxResult{Items: annotate(res.Items), Total: res.Total}, nil
}
