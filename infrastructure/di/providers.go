package di

import (
	"context"

	"sitegraph/application/ports"
	"sitegraph/application/services"
	"sitegraph/infrastructure/config"
	"sitegraph/infrastructure/messaging"
	dynamorepo "sitegraph/infrastructure/persistence/dynamodb"
	"sitegraph/infrastructure/persistence/memory"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideSitemapRepository selects the configured repository implementation
func ProvideSitemapRepository(
	client *awsdynamodb.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.SitemapRepository {
	if cfg.UseMemoryRepository {
		return memory.NewSitemapRepository()
	}
	return dynamorepo.NewSitemapRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(logger *zap.Logger) ports.EventPublisher {
	return messaging.NewLogPublisher(logger)
}

// ProvideSessionManager creates the per-website engine registry
func ProvideSessionManager(
	repo ports.SitemapRepository,
	publisher ports.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SessionManager {
	return services.NewSessionManager(repo, publisher, cfg.HistoryCapacity, logger)
}
