package main

import (
	"context"
	"log"

	"anonymizer/internal/app"
	"anonymizer/internal/dto"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	application, err := app.NewApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	anonymizer := application.Anonymizer()
	lambda.Start(func(ctx context.Context, req dto.Request) (dto.Response, error) {
		return anonymizer.Handle(ctx, req), nil
	})
}
