package dynamodb

import (
	"context"
	"fmt"

	"sitegraph/application/ports"
	"sitegraph/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// SitemapRepository implements ports.SitemapRepository on a single DynamoDB
// table. Pages and positions share the website partition:
//
//	PK=WEBSITE#<websiteID>  SK=PAGE#<pageID>
//	PK=WEBSITE#<websiteID>  SK=POSITION#<nodeType>#<nodeID>
type SitemapRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSitemapRepository creates a DynamoDB-backed sitemap repository
func NewSitemapRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.SitemapRepository {
	return &SitemapRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// pageItem is the DynamoDB item structure for a page record
type pageItem struct {
	PK         string        `dynamodbav:"PK"`
	SK         string        `dynamodbav:"SK"`
	EntityType string        `dynamodbav:"EntityType"`
	Page       entities.Page `dynamodbav:"Page"`
}

// positionItem is the DynamoDB item structure for a saved canvas position
type positionItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"EntityType"`
	NodeID     string  `dynamodbav:"NodeID"`
	NodeType   string  `dynamodbav:"NodeType"`
	X          float64 `dynamodbav:"X"`
	Y          float64 `dynamodbav:"Y"`
}

func websitePK(websiteID string) string {
	return fmt.Sprintf("WEBSITE#%s", websiteID)
}

// ListPages retrieves the page batch for a website
func (r *SitemapRepository) ListPages(ctx context.Context, websiteID string) ([]entities.Page, error) {
	items, err := r.queryPrefix(ctx, websiteID, "PAGE#")
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}

	pages := make([]entities.Page, 0, len(items))
	for _, item := range items {
		var record pageItem
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			r.logger.Warn("Skipping unreadable page item", zap.Error(err))
			continue
		}
		pages = append(pages, record.Page)
	}

	r.logger.Debug("Listed pages",
		zap.String("websiteID", websiteID),
		zap.Int("count", len(pages)),
	)
	return pages, nil
}

// ListPositions retrieves the saved canvas positions for a website
func (r *SitemapRepository) ListPositions(ctx context.Context, websiteID string) ([]entities.SavedPosition, error) {
	items, err := r.queryPrefix(ctx, websiteID, "POSITION#")
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}

	positions := make([]entities.SavedPosition, 0, len(items))
	for _, item := range items {
		var record positionItem
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			r.logger.Warn("Skipping unreadable position item", zap.Error(err))
			continue
		}
		positions = append(positions, entities.SavedPosition{
			NodeID:   record.NodeID,
			NodeType: entities.NodeType(record.NodeType),
			X:        record.X,
			Y:        record.Y,
		})
	}
	return positions, nil
}

// BulkUpdatePositions persists canvas positions in batches
func (r *SitemapRepository) BulkUpdatePositions(ctx context.Context, websiteID string, positions []entities.SavedPosition) error {
	// DynamoDB BatchWriteItem takes at most 25 requests per call.
	const batchSize = 25

	for start := 0; start < len(positions); start += batchSize {
		end := start + batchSize
		if end > len(positions) {
			end = len(positions)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, pos := range positions[start:end] {
			item := positionItem{
				PK:         websitePK(websiteID),
				SK:         fmt.Sprintf("POSITION#%s#%s", pos.NodeType, pos.NodeID),
				EntityType: "POSITION",
				NodeID:     pos.NodeID,
				NodeType:   string(pos.NodeType),
				X:          pos.X,
				Y:          pos.Y,
			}
			av, err := attributevalue.MarshalMap(item)
			if err != nil {
				return fmt.Errorf("failed to marshal position: %w", err)
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: writes,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to write position batch: %w", err)
		}
	}

	r.logger.Debug("Persisted positions",
		zap.String("websiteID", websiteID),
		zap.Int("count", len(positions)),
	)
	return nil
}

// CreateInternalLink appends an outgoing link to the source page record.
// The target page is read first to resolve its slug; link targets are
// addressed by slug in page records.
func (r *SitemapRepository) CreateInternalLink(ctx context.Context, websiteID, sourcePageID, targetPageID string) error {
	target, err := r.getPage(ctx, websiteID, targetPageID)
	if err != nil {
		return fmt.Errorf("failed to load target page: %w", err)
	}

	link := entities.InternalLink{TargetSlug: target.Slug}
	update := expression.Set(
		expression.Name("Page.outgoing_links"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("Page.outgoing_links"), expression.Value([]entities.InternalLink{})),
			expression.Value([]entities.InternalLink{link}),
		),
	)
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: websitePK(websiteID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PAGE#%s", sourcePageID)},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("failed to append link: %w", err)
	}

	r.logger.Info("Internal link persisted",
		zap.String("websiteID", websiteID),
		zap.String("sourcePageID", sourcePageID),
		zap.String("targetPageID", targetPageID),
	)
	return nil
}

func (r *SitemapRepository) getPage(ctx context.Context, websiteID, pageID string) (entities.Page, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: websitePK(websiteID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PAGE#%s", pageID)},
		},
	})
	if err != nil {
		return entities.Page{}, err
	}
	if out.Item == nil {
		return entities.Page{}, fmt.Errorf("page %s not found", pageID)
	}

	var record pageItem
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return entities.Page{}, err
	}
	return record.Page, nil
}

func (r *SitemapRepository) queryPrefix(ctx context.Context, websiteID, prefix string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(websitePK(websiteID))).
		And(expression.Key("SK").BeginsWith(prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}
