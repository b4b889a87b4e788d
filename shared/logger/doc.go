// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

/*
Package logger provides structured JSON logging with tenant attribution for
Entrevia services.

# Overview

The logger outputs single-line JSON to stdout, making logs consumable by
CloudWatch, ELK, or any other log aggregation system.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (gateway, worker, etc.)
  - Instance ID and container name
  - Tenant ID (for multi-tenant isolation)
  - Request ID (for request correlation)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("gateway")

Log messages with tenant and request context:

	log.Info("tenant-123", "req-456", "Processing run", map[string]interface{}{
	    "tool": "analyze_session",
	})

Log errors with status codes:

	log.ErrorWithCode("tenant-123", "req-456", "Run failed", 500, err, nil)

# Environment Variables

  - INSTANCE_ID: Deployment instance identifier
  - HOSTNAME: Container hostname (auto-detected)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
