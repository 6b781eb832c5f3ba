// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis holds the wire types and HTTP client for the remote symptom
// analysis service.
//
// The service accepts a free-text note and answers once per request with a
// structured Result. Nothing in this package animates or interprets the reply;
// it only fetches it and formats it for the chat transcript.
//
// # Key Types
//
//   - Result: the structured reply (session id, diagnoses, explanation, exam)
//   - Client: rate-limited HTTP client for the /analyze/ endpoint
//   - ClientError: categorized client failure, usable with errors.Is
//   - Intake: symptom form data that BuildNote turns into a note
//
// # Usage
//
//	client := analysis.NewClient(&analysis.ClientConfig{BaseURL: "http://127.0.0.1:8000/api"})
//	res, err := client.Analyze(ctx, "Headache and fever for two days")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(analysis.FormatReply(res))
package analysis
