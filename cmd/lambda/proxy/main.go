package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/radiantloop/notion-proxy/pkg/aws"
	"github.com/radiantloop/notion-proxy/pkg/server"
)

func main() {
	cfg := aws.FromEnv(context.Background())

	proxy, err := aws.Construct(cfg)
	if err != nil {
		panic(err)
	}

	lambda.Start(httpadapter.New(server.NewServer(proxy)).ProxyWithContext)
}
