package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/dave-sbs/voting-app-sub000/api/controllers"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)
	s3Client := s3.NewFromConfig(cfg)

	eventStorage := &storage.DynamoEventStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameEvents,
	}
	memberStorage := &storage.DynamoMemberStorage{
		Client:                dynamoClient,
		TableName:             s.config.TableNameMembers,
		StoreNumbersTableName: s.config.TableNameStoreNumbers,
	}
	checkInStorage := &storage.DynamoCheckInStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCheckIns,
	}
	candidateStorage := &storage.DynamoCandidateStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCandidates,
	}
	policyStorage := &storage.DynamoPolicyStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNamePolicy,
	}
	voteStorage := &storage.DynamoVoteStorage{
		Client:              dynamoClient,
		CheckInsTableName:   s.config.TableNameCheckIns,
		CandidatesTableName: s.config.TableNameCandidates,
	}
	mediaStorage := &storage.S3MediaStorage{
		Client: s3Client,
		Bucket: s.config.MediaBucket,
		Region: s.config.MediaRegion,
	}

	//Register controllers
	eventController := controllers.NewEventController(eventStorage)
	eventController.RegisterRoutes(r)
	memberController := controllers.NewMemberController(memberStorage)
	memberController.RegisterRoutes(r)
	checkInController := controllers.NewCheckInController(checkInStorage, memberStorage, eventStorage)
	checkInController.RegisterRoutes(r)
	candidateController := controllers.NewCandidateController(candidateStorage, memberStorage, mediaStorage)
	candidateController.RegisterRoutes(r)
	policyController := controllers.NewPolicyController(policyStorage)
	policyController.RegisterRoutes(r)
	votingController := controllers.NewVotingController(voteStorage, checkInStorage, candidateStorage, policyStorage)
	votingController.RegisterRoutes(r)
	sessionController := controllers.NewSessionController(eventStorage, checkInStorage, candidateStorage, policyStorage)
	sessionController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on port 8080
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
