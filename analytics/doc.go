// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package analytics is the client for the external text-to-SQL service.

# Request

Ask POSTs one JSON document per question with the x-api-key header. The
model ids, persona, warehouse connection and metadata locations come from
Config. Prior messages are sent as

	[{"role": "user"|"assistant", "content": [{"text": "..."}]}]

with the welcome greeting and text-less messages left out.

# Response Mapping

MapResponse reads the reply with gjson and tolerates the shapes the service
has produced over time:

  - text: answer, result.direct_answer, response
  - SQL: sql_query, redshift_sql
  - table: dataframe as records, a single object, pandas "split", or any of
    those JSON-encoded in a string
  - chart: graphical_representation as URL, data URI or bare base64 PNG

A dataframe that cannot be parsed degrades the message to text with an
error note appended.

# Errors

Transport failures and non-2xx statuses come back as ordinary bot messages
so the RM sees them inline. Ask only returns an error when the request
itself cannot be built.
*/
package analytics
