package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active session JTI
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// SurveyPayloadKey returns the cache key for a published questionnaire's
// respondent-facing payload
func (r *CacheKeyStruct) SurveyPayloadKey(questionnaireID string) string {
	return fmt.Sprintf("survey:%s:payload", questionnaireID)
}

// SurveyPasscodeKey returns the cache key for a published questionnaire's
// passcode (stored separately so the payload can be served without it)
func (r *CacheKeyStruct) SurveyPasscodeKey(questionnaireID string) string {
	return fmt.Sprintf("survey:%s:passcode", questionnaireID)
}

// ResponseCountKey returns the cache key counting submissions per questionnaire
func (r *CacheKeyStruct) ResponseCountKey(questionnaireID string) string {
	return fmt.Sprintf("survey:%s:response_count", questionnaireID)
}

// ResponseMonitorChannel returns the Redis PubSub channel on which new
// responses for a questionnaire are announced
func (r *CacheKeyStruct) ResponseMonitorChannel(questionnaireID string) string {
	return fmt.Sprintf("survey:%s:responses", questionnaireID)
}

var CacheKey = NewCacheKeyStruct()

// WebhookQueue is the Redis list consumed by the webhook delivery worker.
const WebhookQueue = "webhook_delivery_queue"
