package surveyconfig

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	required := map[string]string{
		ENV_SOURCE_SITE_URL: "https://contoso.sharepoint.com/sites/surveys/",
		ENV_APP_ID:          "app-id",
		ENV_APP_SECRET:      "app-secret",

		ENV_QUESTIONS_LIST_TITLE:                  "Questions",
		ENV_QUESTIONS_LIST_TITLE_FIELD_NAME:       "Title",
		ENV_QUESTIONS_LIST_TYPE_FIELD_NAME:        "QuestionType",
		ENV_QUESTIONS_LIST_IS_REQUIRED_FIELD_NAME: "IsRequired",

		ENV_TEMPLATES_LIST_TITLE:                  "Templates",
		ENV_TEMPLATES_LIST_TITLE_FIELD_NAME:       "Title",
		ENV_TEMPLATES_LIST_DESCRIPTION_FIELD_NAME: "Description",
		ENV_TEMPLATES_LIST_QUESTIONS_FIELD_NAME:   "Questions",

		ENV_POLLS_LIST_TITLE:                        "Polls",
		ENV_POLLS_LIST_MEETING_ID_FIELD_NAME:        "MeetingId",
		ENV_POLLS_LIST_MEETING_ORGANIZER_FIELD_NAME: "MeetingOrganizer",
		ENV_POLLS_LIST_MEETING_ATTENDEES_FIELD_NAME: "MeetingAttendees",
		ENV_POLLS_LIST_POLL_TEMPLATE_FIELD_NAME:     "PollTemplate",
		ENV_POLLS_LIST_MEETING_START_DATE_FIELD_NAME: "StartDate",
		ENV_POLLS_LIST_MEETING_END_DATE_FIELD_NAME:   "EndDate",
		ENV_POLLS_LIST_MEETING_NAME_FIELD_NAME:       "MeetingName",

		ENV_RESPONSES_LIST_TITLE:                  "Responses",
		ENV_RESPONSES_LIST_USER_ID_FIELD_NAME:     "UserId",
		ENV_RESPONSES_LIST_MEETING_ID_FIELD_NAME:  "MeetingId",
		ENV_RESPONSES_LIST_TENANT_ID_FIELD_NAME:   "TenantId",
		ENV_RESPONSES_LIST_QUESTION_ID_FIELD_NAME: "QuestionId",
		ENV_RESPONSES_LIST_RESPONSE_FIELD_NAME:    "Response",
		ENV_RESPONSES_LIST_POLL_ID_FIELD_NAME:     "PollId",
	}
	for key, value := range required {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}

	if cfg.SourceSiteURL != "https://contoso.sharepoint.com/sites/surveys" {
		t.Errorf("expected trailing slash to be trimmed, got %s", cfg.SourceSiteURL)
	}
	if cfg.SiteDomain != "contoso.sharepoint.com" {
		t.Errorf("unexpected site domain: %s", cfg.SiteDomain)
	}
	if cfg.ServerRelativePath != "/sites/surveys" {
		t.Errorf("unexpected server relative path: %s", cfg.ServerRelativePath)
	}
	if cfg.Polls.MeetingIDField != "MeetingId" {
		t.Errorf("unexpected polls meeting id field: %s", cfg.Polls.MeetingIDField)
	}
}

func TestLoadFailsFastOnMissingKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(ENV_RESPONSES_LIST_POLL_ID_FIELD_NAME, "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing responses poll id field, but got nil")
	}
}

func TestLoadRejectsInvalidSiteURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(ENV_SOURCE_SITE_URL, "contoso.sharepoint.com/sites/surveys")

	if _, err := Load(); err == nil {
		t.Error("expected error for site URL without scheme, but got nil")
	}
}

func TestParseSiteURLWithoutSitesSegment(t *testing.T) {
	domain, relativePath, err := parseSiteURL("https://contoso.sharepoint.com")
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}
	if domain != "contoso.sharepoint.com" {
		t.Errorf("unexpected domain: %s", domain)
	}
	if relativePath != "/" {
		t.Errorf("expected root relative path, got %s", relativePath)
	}
}

func TestClientMapExcludesSecret(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}

	clientConfig := cfg.ClientMap()
	if _, found := clientConfig[ENV_APP_SECRET]; found {
		t.Error("app secret must not be exposed to the client")
	}
	if clientConfig[ENV_APP_ID] != "app-id" {
		t.Errorf("expected app id in client config, got %s", clientConfig[ENV_APP_ID])
	}
	if clientConfig[ENV_SOURCE_SITE_URL] != "https://contoso.sharepoint.com/sites/surveys" {
		t.Errorf("expected normalized site URL in client config, got %s", clientConfig[ENV_SOURCE_SITE_URL])
	}
}
