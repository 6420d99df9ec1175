package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DateLayout is the calendar-day format used across the Away archive
const DateLayout = "2006-01-02"

// DefaultAwayPageSize is the per-type, per-day page size
const DefaultAwayPageSize = 20

// AwayService serves the archived-item views: per-type per-day keyset
// pages, the oldest-archived-date anchor, and the merged day-walking
// feed. Pagination keys on _id: ObjectIDs are assigned in creation
// order, so descending _id is descending recency.
type AwayService struct {
	tasks     *mongo.Collection
	resources *mongo.Collection
	thoughts  *mongo.Collection
	pageSize  int
}

// NewAwayService creates a new away service. pageSize <= 0 falls back
// to DefaultAwayPageSize.
func NewAwayService(mongodb *database.MongoDB, pageSize int) *AwayService {
	if pageSize <= 0 {
		pageSize = DefaultAwayPageSize
	}
	return &AwayService{
		tasks:     mongodb.Collection(database.CollectionTasks),
		resources: mongodb.Collection(database.CollectionResources),
		thoughts:  mongodb.Collection(database.CollectionThoughts),
		pageSize:  pageSize,
	}
}

// DayBounds returns the inclusive [00:00:00.000, 23:59:59.999] range
// of a YYYY-MM-DD day in the local timezone.
func DayBounds(date string) (time.Time, time.Time, error) {
	return dayBoundsIn(date, time.Local)
}

func dayBoundsIn(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, models.ErrValidation)
	}
	// Calendar arithmetic, not duration arithmetic: DST days are not
	// 24 hours long.
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end, nil
}

func (s *AwayService) collectionFor(itemType models.ItemType) *mongo.Collection {
	switch itemType {
	case models.ItemTypeTask:
		return s.tasks
	case models.ItemTypeResource:
		return s.resources
	default:
		return s.thoughts
	}
}

// GetItemsByDate returns one keyset page of the caller's archived
// inbox-level items of one type created within the given day, newest
// first. A non-empty cursor resumes at that id (inclusive, since the
// cursor is the first id of the next page). limit <= 0 uses the
// configured page size.
func (s *AwayService) GetItemsByDate(ctx context.Context, userID string, itemType models.ItemType, date, cursor string, limit int) (*models.AwayPage, error) {
	if !models.ValidItemType(itemType) {
		return nil, fmt.Errorf("invalid item type %q: %w", itemType, models.ErrValidation)
	}
	if limit <= 0 {
		limit = s.pageSize
	}

	start, end, err := DayBounds(date)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"userId":    userID,
		"isAway":    true,
		"projectId": bson.M{"$exists": false},
		"createdAt": bson.M{"$gte": start, "$lte": end},
	}
	if cursor != "" {
		cursorID, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", models.ErrValidation)
		}
		filter["_id"] = bson.M{"$lte": cursorID}
	}

	// Fetch one extra row: its id becomes the next page's cursor.
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))

	items, err := s.fetchItems(ctx, itemType, filter, opts)
	if err != nil {
		return nil, err
	}

	page := &models.AwayPage{}
	page.Items, page.NextCursor = trimPage(items, limit)
	awayPagesTotal.WithLabelValues(string(itemType)).Inc()
	return page, nil
}

// trimPage cuts a limit+1 fetch down to one page. The extra row is not
// returned; its id becomes the cursor the next page resumes at.
func trimPage(items []models.AwayItem, limit int) ([]models.AwayItem, string) {
	if len(items) <= limit {
		return items, ""
	}
	return items[:limit], itemID(items[limit])
}

func (s *AwayService) fetchItems(ctx context.Context, itemType models.ItemType, filter bson.M, opts *options.FindOptions) ([]models.AwayItem, error) {
	cursor, err := s.collectionFor(itemType).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list away %ss: %w", itemType, err)
	}
	defer cursor.Close(ctx)

	var items []models.AwayItem
	switch itemType {
	case models.ItemTypeTask:
		var tasks []models.Task
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode away tasks: %w", err)
		}
		for i := range tasks {
			items = append(items, models.AwayItem{Type: itemType, CreatedAt: tasks[i].CreatedAt, Task: &tasks[i]})
		}
	case models.ItemTypeResource:
		var resources []models.Resource
		if err := cursor.All(ctx, &resources); err != nil {
			return nil, fmt.Errorf("failed to decode away resources: %w", err)
		}
		for i := range resources {
			items = append(items, models.AwayItem{Type: itemType, CreatedAt: resources[i].CreatedAt, Resource: &resources[i]})
		}
	default:
		var thoughts []models.Thought
		if err := cursor.All(ctx, &thoughts); err != nil {
			return nil, fmt.Errorf("failed to decode away thoughts: %w", err)
		}
		for i := range thoughts {
			items = append(items, models.AwayItem{Type: itemType, CreatedAt: thoughts[i].CreatedAt, Thought: &thoughts[i]})
		}
	}
	return items, nil
}

func itemID(item models.AwayItem) string {
	switch {
	case item.Task != nil:
		return item.Task.ID.Hex()
	case item.Resource != nil:
		return item.Resource.ID.Hex()
	case item.Thought != nil:
		return item.Thought.ID.Hex()
	}
	return ""
}

// GetOldestAwayDate returns the minimum createdAt across all three
// archived item types for the caller, or nil when nothing is archived.
// This anchors where the backward day walk stops.
func (s *AwayService) GetOldestAwayDate(ctx context.Context, userID string) (*time.Time, error) {
	var oldest *time.Time
	for _, itemType := range []models.ItemType{models.ItemTypeTask, models.ItemTypeResource, models.ItemTypeThought} {
		created, err := s.oldestFor(ctx, itemType, userID)
		if err != nil {
			return nil, err
		}
		if created != nil && (oldest == nil || created.Before(*oldest)) {
			oldest = created
		}
	}
	return oldest, nil
}

func (s *AwayService) oldestFor(ctx context.Context, itemType models.ItemType, userID string) (*time.Time, error) {
	// Only createdAt is needed; decode into a minimal view.
	var doc struct {
		CreatedAt time.Time `bson:"createdAt"`
	}
	err := s.collectionFor(itemType).FindOne(ctx, bson.M{
		"userId": userID,
		"isAway": true,
	}, options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(bson.M{"createdAt": 1}),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find oldest away %s: %w", itemType, err)
	}
	return &doc.CreatedAt, nil
}

// MergeDayItems merges per-type fetches of one day into a single feed
// sorted most-recent-first.
func MergeDayItems(groups ...[]models.AwayItem) []models.AwayItem {
	var merged []models.AwayItem
	for _, g := range groups {
		merged = append(merged, g...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// DayStrings lists the YYYY-MM-DD days from `from` backward through
// `until` inclusive. An `until` after `from` yields just `from`'s day.
func DayStrings(from, until time.Time) []string {
	days := []string{}
	day := from.In(time.Local)
	stop := until.In(time.Local)
	stopStr := stop.Format(DateLayout)
	for {
		str := day.Format(DateLayout)
		days = append(days, str)
		if str <= stopStr {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return days
}

// ListDays walks calendar days from today backward through untilDate
// (YYYY-MM-DD, clamped to the oldest archived item) and returns one
// merged bucket per day that has items. All three types are fetched
// concurrently per day, first page each; per-type continuation cursors
// ride along so a day holding more than one page can be paged further.
func (s *AwayService) ListDays(ctx context.Context, userID, untilDate string) (*models.AwayFeed, error) {
	now := time.Now()

	until := now
	if untilDate != "" {
		parsed, _, err := DayBounds(untilDate)
		if err != nil {
			return nil, err
		}
		until = parsed
	}

	oldest, err := s.GetOldestAwayDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	feed := &models.AwayFeed{Days: []models.DayBucket{}, OldestDate: oldest}
	if oldest == nil {
		return feed, nil
	}
	if until.Before(*oldest) {
		until = *oldest
	}

	for _, day := range DayStrings(now, until) {
		bucket, err := s.fetchDay(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		if len(bucket.Items) > 0 {
			feed.Days = append(feed.Days, *bucket)
		}
	}

	feed.HasMore = until.Format(DateLayout) > oldest.Format(DateLayout)
	return feed, nil
}

// fetchDay fetches the first page of each item type for one day in
// parallel and merges them.
func (s *AwayService) fetchDay(ctx context.Context, userID, day string) (*models.DayBucket, error) {
	types := []models.ItemType{models.ItemTypeTask, models.ItemTypeResource, models.ItemTypeThought}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		pages    = make(map[models.ItemType]*models.AwayPage, len(types))
		firstErr error
	)
	for _, itemType := range types {
		wg.Add(1)
		go func(t models.ItemType) {
			defer wg.Done()
			page, err := s.GetItemsByDate(ctx, userID, t, day, "", 0)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			pages[t] = page
		}(itemType)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	bucket := &models.DayBucket{Date: day}
	var groups [][]models.AwayItem
	for _, t := range types {
		page := pages[t]
		groups = append(groups, page.Items)
		if page.NextCursor != "" {
			if bucket.Cursors == nil {
				bucket.Cursors = make(map[models.ItemType]string)
			}
			bucket.Cursors[t] = page.NextCursor
		}
	}
	bucket.Items = MergeDayItems(groups...)
	return bucket, nil
}
