package usecase

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"
)

// NetworkService manages nodes, their time windows and the distance matrix
type NetworkService struct {
	nodes     repository.NodeRepository
	windows   repository.TimeWindowRepository
	distances repository.DistanceMatrixRepository
	cache     repository.DistanceCache
	recorder
}

// NewNetworkService creates a new network service. cache may be nil.
func NewNetworkService(
	nodes repository.NodeRepository,
	windows repository.TimeWindowRepository,
	distances repository.DistanceMatrixRepository,
	cache repository.DistanceCache,
	audit repository.AuditRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *NetworkService {
	return &NetworkService{
		nodes:     nodes,
		windows:   windows,
		distances: distances,
		cache:     cache,
		recorder:  newRecorder(audit, metrics, logger),
	}
}

func nodeChanges(n *entity.Node) map[string]interface{} {
	return map[string]interface{}{
		"node_name": n.NodeName,
		"latitude":  n.Latitude,
		"longitude": n.Longitude,
	}
}

// CreateNode validates and stores a new node
func (s *NetworkService) CreateNode(ctx context.Context, node *entity.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	node.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.nodes.Create(ctx, node); err != nil {
		return s.failed("node.create", err)
	}
	s.mutated(ctx, entity.EntityNode, node.ID, entity.ActionCreate, nodeChanges(node))
	return nil
}

// GetNode returns one node with its live time windows
func (s *NetworkService) GetNode(ctx context.Context, id uint, includeDeleted bool) (*entity.Node, error) {
	node, err := s.nodes.GetByID(ctx, id, includeDeleted)
	return node, s.failed("node.get", err)
}

// ListNodes returns nodes ordered by id
func (s *NetworkService) ListNodes(ctx context.Context, filter entity.ListFilter) ([]*entity.Node, error) {
	nodes, err := s.nodes.List(ctx, filter)
	return nodes, s.failed("node.list", err)
}

// UpdateNode overwrites a live node and returns its stored state
func (s *NetworkService) UpdateNode(ctx context.Context, node *entity.Node) (*entity.Node, error) {
	if err := node.Validate(); err != nil {
		return nil, err
	}
	node.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.nodes.Update(ctx, node); err != nil {
		return nil, s.failed("node.update", err)
	}
	s.mutated(ctx, entity.EntityNode, node.ID, entity.ActionUpdate, nodeChanges(node))
	return s.GetNode(ctx, node.ID, false)
}

// DeleteNode soft-deletes a node
func (s *NetworkService) DeleteNode(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityNode, s.nodes, id)
}

// RestoreNode revives a soft-deleted node
func (s *NetworkService) RestoreNode(ctx context.Context, id uint) (*entity.Node, error) {
	if err := s.restore(ctx, entity.EntityNode, s.nodes, id); err != nil {
		return nil, err
	}
	return s.GetNode(ctx, id, false)
}

func windowChanges(w *entity.TimeWindow) map[string]interface{} {
	return map[string]interface{}{
		"node_id":    w.NodeID,
		"start_time": w.StartTime.String(),
		"end_time":   w.EndTime.String(),
	}
}

// AddTimeWindow attaches a time window to a live node
func (s *NetworkService) AddTimeWindow(ctx context.Context, window *entity.TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	if _, err := s.nodes.GetByID(ctx, window.NodeID, false); err != nil {
		return s.failed("time_window.create", requireLive("node_id", err))
	}
	window.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.windows.Create(ctx, window); err != nil {
		return s.failed("time_window.create", err)
	}
	s.mutated(ctx, entity.EntityTimeWindow, window.ID, entity.ActionCreate, windowChanges(window))
	return nil
}

// GetTimeWindow returns one time window
func (s *NetworkService) GetTimeWindow(ctx context.Context, id uint, includeDeleted bool) (*entity.TimeWindow, error) {
	window, err := s.windows.GetByID(ctx, id, includeDeleted)
	return window, s.failed("time_window.get", err)
}

// ListTimeWindows returns the time windows of a node ordered by start time
func (s *NetworkService) ListTimeWindows(ctx context.Context, nodeID uint, includeDeleted bool) ([]*entity.TimeWindow, error) {
	if _, err := s.nodes.GetByID(ctx, nodeID, includeDeleted); err != nil {
		return nil, s.failed("time_window.list", err)
	}
	windows, err := s.windows.ListByNode(ctx, nodeID, includeDeleted)
	return windows, s.failed("time_window.list", err)
}

// UpdateTimeWindow moves the bounds of a live time window; its node does not change
func (s *NetworkService) UpdateTimeWindow(ctx context.Context, window *entity.TimeWindow) (*entity.TimeWindow, error) {
	existing, err := s.windows.GetByID(ctx, window.ID, false)
	if err != nil {
		return nil, s.failed("time_window.update", err)
	}
	window.NodeID = existing.NodeID
	if err := window.Validate(); err != nil {
		return nil, err
	}
	window.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.windows.Update(ctx, window); err != nil {
		return nil, s.failed("time_window.update", err)
	}
	s.mutated(ctx, entity.EntityTimeWindow, window.ID, entity.ActionUpdate, windowChanges(window))
	return s.GetTimeWindow(ctx, window.ID, false)
}

// DeleteTimeWindow soft-deletes a time window
func (s *NetworkService) DeleteTimeWindow(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityTimeWindow, s.windows, id)
}

// RestoreTimeWindow revives a soft-deleted time window of a live node
func (s *NetworkService) RestoreTimeWindow(ctx context.Context, id uint) (*entity.TimeWindow, error) {
	window, err := s.windows.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("time_window.restore", err)
	}
	if _, err := s.nodes.GetByID(ctx, window.NodeID, false); err != nil {
		return nil, s.failed("time_window.restore", requireLive("node_id", err))
	}
	if err := s.restore(ctx, entity.EntityTimeWindow, s.windows, id); err != nil {
		return nil, err
	}
	return s.GetTimeWindow(ctx, id, false)
}

// SetDistance stores the distance and travel time of an ordered node pair,
// overwriting any earlier value for the pair.
func (s *NetworkService) SetDistance(ctx context.Context, entry *entity.DistanceEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if _, err := s.nodes.GetByID(ctx, entry.OriginNodeID, false); err != nil {
		return s.failed("distance.set", requireLive("origin_node_id", err))
	}
	if _, err := s.nodes.GetByID(ctx, entry.DestinationNodeID, false); err != nil {
		return s.failed("distance.set", requireLive("destination_node_id", err))
	}

	actor := ActorFromContext(ctx)
	entry.Audit = entity.NewAudit(actor)
	if err := s.distances.Upsert(ctx, entry); err != nil {
		return s.failed("distance.set", err)
	}
	s.store(ctx, entry)

	s.mutated(ctx, entity.EntityDistance, entry.ID, createAction(entry.Audit), map[string]interface{}{
		"origin_node_id":      entry.OriginNodeID,
		"destination_node_id": entry.DestinationNodeID,
		"distance":            entry.Distance,
		"travel_time":         entry.TravelTime,
	})
	return nil
}

// Distance returns the live entry of an ordered node pair, served from the
// cache when one is configured.
func (s *NetworkService) Distance(ctx context.Context, origin, destination uint) (*entity.DistanceEntry, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, origin, destination)
		if err != nil {
			s.metrics.Error("distance.cache.get")
			s.logger.Warn("Distance cache read failed", "origin", origin, "destination", destination, "error", err)
		} else {
			s.metrics.CacheLookup(hit)
			if hit {
				return cached, nil
			}
		}
	}

	entry, err := s.distances.Get(ctx, origin, destination)
	if err != nil {
		return nil, s.failed("distance.get", err)
	}

	// a write that landed after the read above has already stored its value
	if s.cache != nil {
		if _, err := s.cache.SetIfAbsent(ctx, entry); err != nil {
			s.logger.Warn("Distance cache write failed", "origin", origin, "destination", destination, "error", err)
		}
	}
	return entry, nil
}

// GetDistance returns one distance entry by id
func (s *NetworkService) GetDistance(ctx context.Context, id uint, includeDeleted bool) (*entity.DistanceEntry, error) {
	entry, err := s.distances.GetByID(ctx, id, includeDeleted)
	return entry, s.failed("distance.get", err)
}

// ListDistances returns distance entries ordered by id
func (s *NetworkService) ListDistances(ctx context.Context, filter entity.ListFilter) ([]*entity.DistanceEntry, error) {
	entries, err := s.distances.List(ctx, filter)
	return entries, s.failed("distance.list", err)
}

// DistancesFrom returns every live entry leaving a live node
func (s *NetworkService) DistancesFrom(ctx context.Context, origin uint) ([]*entity.DistanceEntry, error) {
	if _, err := s.nodes.GetByID(ctx, origin, false); err != nil {
		return nil, s.failed("distance.list_from", err)
	}
	entries, err := s.distances.ListFrom(ctx, origin)
	return entries, s.failed("distance.list_from", err)
}

// Matrix returns every known entry among the nodes plus the ordered pairs
// that have no entry yet.
func (s *NetworkService) Matrix(ctx context.Context, nodeIDs []uint) (*entity.DistanceMatrix, error) {
	ids := entity.UniqueNodeIDs(nodeIDs)
	if len(ids) < 2 {
		return nil, entity.NewValidationError("node_ids", "at least two distinct nodes are required")
	}
	if len(ids) > entity.MaxMatrixNodes {
		return nil, entity.NewValidationError("node_ids", "at most %d nodes are allowed", entity.MaxMatrixNodes)
	}

	entries, err := s.distances.ListAmong(ctx, ids)
	if err != nil {
		return nil, s.failed("distance.matrix", err)
	}
	return entity.NewDistanceMatrix(ids, entries), nil
}

// DeleteDistance soft-deletes a distance entry
func (s *NetworkService) DeleteDistance(ctx context.Context, id uint) error {
	entry, err := s.distances.GetByID(ctx, id, false)
	if err != nil {
		return s.failed("distance.delete", err)
	}
	if err := s.softDelete(ctx, entity.EntityDistance, s.distances, id); err != nil {
		return err
	}
	s.invalidate(ctx, entry.OriginNodeID, entry.DestinationNodeID)
	return nil
}

// RestoreDistance revives a soft-deleted distance entry between live nodes
func (s *NetworkService) RestoreDistance(ctx context.Context, id uint) (*entity.DistanceEntry, error) {
	deleted, err := s.distances.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("distance.restore", err)
	}
	if _, err := s.nodes.GetByID(ctx, deleted.OriginNodeID, false); err != nil {
		return nil, s.failed("distance.restore", requireLive("origin_node_id", err))
	}
	if _, err := s.nodes.GetByID(ctx, deleted.DestinationNodeID, false); err != nil {
		return nil, s.failed("distance.restore", requireLive("destination_node_id", err))
	}
	if err := s.restore(ctx, entity.EntityDistance, s.distances, id); err != nil {
		return nil, err
	}
	entry, err := s.GetDistance(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.store(ctx, entry)
	return entry, nil
}

// store writes a mutated entry through to the cache
func (s *NetworkService) store(ctx context.Context, entry *entity.DistanceEntry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.metrics.Error("distance.cache.set")
		s.logger.Warn("Distance cache write failed", "origin", entry.OriginNodeID, "destination", entry.DestinationNodeID, "error", err)
	}
}

func (s *NetworkService) invalidate(ctx context.Context, origin, destination uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, origin, destination); err != nil {
		s.metrics.Error("distance.cache.invalidate")
		s.logger.Warn("Distance cache invalidation failed", "origin", origin, "destination", destination, "error", err)
	}
}
