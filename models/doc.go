// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - LoginRequest: username, password
  - RenameConversationRequest: name
  - SendMessageRequest: content

# Response Types

  - LoginResponse: token, user, expires_at
  - SendMessageResponse: user_message, bot_message
  - ListConversationsResponse: conversations
  - SuggestionsResponse: suggestions
  - CustomerSummaryResponse: customer_id, summary
  - ErrorResponse: error, message

# Domain Types

  - User: the signed-in relationship manager
  - Conversation: ordered thread of messages owned by a user
  - ConversationSummary: sidebar entry with last-message preview
  - Message: one bubble, sent by "user" or "bot"
  - MessageContent: text plus optional chart, SQL info and table rows

# Welcome Message

New conversations start with a bot greeting whose ID begins with
WelcomeIDPrefix ("msg-init-"). It is hidden once the RM sends the first
message and is never forwarded to the analytics service.
*/
package models
