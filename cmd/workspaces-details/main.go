// Command workspaces-details is the AWS Lambda entrypoint for reading and
// updating workspace provisioning status.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"wsdetails/internal/app"
	"wsdetails/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer func() { _ = a.Close() }()
	lambda.Start(a.Handler.Handle)
}
