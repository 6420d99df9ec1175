package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchResultsPerType caps how many rows each item type contributes
const SearchResultsPerType = 5

// SearchService runs case-insensitive substring search across tasks,
// resources and thoughts. Matching is a Mongo regex prefilter; ranking
// happens in memory so the scoring function stays testable.
type SearchService struct {
	tasks          *mongo.Collection
	resources      *mongo.Collection
	thoughts       *mongo.Collection
	projectService *ProjectService
}

// NewSearchService creates a new search service
func NewSearchService(mongodb *database.MongoDB, projectService *ProjectService) *SearchService {
	return &SearchService{
		tasks:          mongodb.Collection(database.CollectionTasks),
		resources:      mongodb.Collection(database.CollectionResources),
		thoughts:       mongodb.Collection(database.CollectionThoughts),
		projectService: projectService,
	}
}

// ScoreField scores one text field against a query: 10 points per
// occurrence plus a 5 point bonus when the field starts with the
// query. Both sides are lowercased first.
func ScoreField(field, query string) int {
	f := strings.ToLower(field)
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	score := strings.Count(f, q) * 10
	if strings.HasPrefix(f, q) {
		score += 5
	}
	return score
}

// SortResults orders results by score descending, breaking ties by
// createdAt descending.
func SortResults(results []models.SearchResult) []models.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results
}

// SearchAll searches the caller's entire space. A blank query returns
// an empty result set without touching the database.
func (s *SearchService) SearchAll(ctx context.Context, userID, query string) ([]models.SearchResult, error) {
	searchesTotal.WithLabelValues("all").Inc()
	return s.search(ctx, userID, query, nil)
}

// SearchProject searches within one project the caller owns
func (s *SearchService) SearchProject(ctx context.Context, userID string, projectID primitive.ObjectID, query string) ([]models.SearchResult, error) {
	if _, err := s.projectService.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}
	searchesTotal.WithLabelValues("project").Inc()
	return s.search(ctx, userID, query, &projectID)
}

// SearchByType searches a single item type across the caller's space
func (s *SearchService) SearchByType(ctx context.Context, userID string, itemType models.ItemType, query string) ([]models.SearchResult, error) {
	if !models.ValidItemType(itemType) {
		return nil, fmt.Errorf("invalid item type %q: %w", itemType, models.ErrValidation)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}
	searchesTotal.WithLabelValues(string(itemType)).Inc()

	var (
		results []models.SearchResult
		err     error
	)
	switch itemType {
	case models.ItemTypeTask:
		results, err = s.searchTasks(ctx, userID, query, nil)
	case models.ItemTypeResource:
		results, err = s.searchResources(ctx, userID, query, nil)
	default:
		results, err = s.searchThoughts(ctx, userID, query, nil)
	}
	if err != nil {
		return nil, err
	}
	return SortResults(results), nil
}

func (s *SearchService) search(ctx context.Context, userID, query string, projectID *primitive.ObjectID) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}

	tasks, err := s.searchTasks(ctx, userID, query, projectID)
	if err != nil {
		return nil, err
	}
	resources, err := s.searchResources(ctx, userID, query, projectID)
	if err != nil {
		return nil, err
	}
	thoughts, err := s.searchThoughts(ctx, userID, query, projectID)
	if err != nil {
		return nil, err
	}

	merged := append(append(tasks, resources...), thoughts...)
	return SortResults(merged), nil
}

// baseFilter builds the shared part of every search filter. A nil
// projectID means the whole space, archived items included.
func baseFilter(userID string, projectID *primitive.ObjectID) bson.M {
	filter := bson.M{"userId": userID}
	if projectID != nil {
		filter["projectId"] = *projectID
	}
	return filter
}

func queryRegex(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}

func (s *SearchService) searchTasks(ctx context.Context, userID, query string, projectID *primitive.ObjectID) ([]models.SearchResult, error) {
	filter := baseFilter(userID, projectID)
	regex := queryRegex(query)
	filter["$or"] = []bson.M{
		{"title": regex},
		{"description": regex},
	}

	cursor, err := s.tasks.Find(ctx, filter, options.Find().SetLimit(SearchResultsPerType))
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task results: %w", err)
	}

	results := make([]models.SearchResult, 0, len(tasks))
	for i := range tasks {
		results = append(results, models.SearchResult{
			Type:      models.ItemTypeTask,
			Score:     ScoreField(tasks[i].Title, query) + ScoreField(tasks[i].Description, query),
			CreatedAt: tasks[i].CreatedAt,
			Task:      &tasks[i],
		})
	}
	return results, nil
}

func (s *SearchService) searchResources(ctx context.Context, userID, query string, projectID *primitive.ObjectID) ([]models.SearchResult, error) {
	filter := baseFilter(userID, projectID)
	regex := queryRegex(query)
	filter["$or"] = []bson.M{
		{"title": regex},
		{"url": regex},
		{"description": regex},
	}

	cursor, err := s.resources.Find(ctx, filter, options.Find().SetLimit(SearchResultsPerType))
	if err != nil {
		return nil, fmt.Errorf("failed to search resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resource results: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resources))
	for i := range resources {
		results = append(results, models.SearchResult{
			Type:      models.ItemTypeResource,
			Score:     ScoreField(resources[i].Title, query) + ScoreField(resources[i].URL, query) + ScoreField(resources[i].Description, query),
			CreatedAt: resources[i].CreatedAt,
			Resource:  &resources[i],
		})
	}
	return results, nil
}

func (s *SearchService) searchThoughts(ctx context.Context, userID, query string, projectID *primitive.ObjectID) ([]models.SearchResult, error) {
	filter := baseFilter(userID, projectID)
	filter["content"] = queryRegex(query)

	cursor, err := s.thoughts.Find(ctx, filter, options.Find().SetLimit(SearchResultsPerType))
	if err != nil {
		return nil, fmt.Errorf("failed to search thoughts: %w", err)
	}
	defer cursor.Close(ctx)

	var thoughts []models.Thought
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, fmt.Errorf("failed to decode thought results: %w", err)
	}

	results := make([]models.SearchResult, 0, len(thoughts))
	for i := range thoughts {
		results = append(results, models.SearchResult{
			Type:      models.ItemTypeThought,
			Score:     ScoreField(thoughts[i].Content, query),
			CreatedAt: thoughts[i].CreatedAt,
			Thought:   &thoughts[i],
		})
	}
	return results, nil
}
