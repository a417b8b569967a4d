package voice_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach-dispatch/internal/config"
	voiceprovider "github.com/example/outreach-dispatch/internal/providers/voice"
)

func fullConfig() config.ExotelConfig {
	return config.ExotelConfig{
		SID:            "acme",
		Token:          "tok",
		ExoPhone:       "08012345678",
		From:           "+919000000000",
		StatusCallback: "https://example.com/callback",
		TimeLimit:      30,
		RingTimeout:    10,
	}
}

func TestExotelProviderSendSuccess(t *testing.T) {
	var (
		gotPath string
		gotForm url.Values
		user    string
		pass    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotForm = r.PostForm
		user, pass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`{"Call":{"Sid":"call-1","Status":"in-progress"}}`))
	}))
	defer srv.Close()

	p, err := voiceprovider.NewExotelProvider(fullConfig(), zerolog.Nop(), voiceprovider.WithExotelBaseURL(srv.URL))
	require.NoError(t, err)

	raw, err := p.Send(context.Background(), &voiceprovider.Payload{To: "+919876543210", Script: "Admissions are open"})
	require.NoError(t, err)
	require.Equal(t, "call-1", raw.ID)
	require.Equal(t, "in-progress", raw.Status)

	require.Equal(t, "/v1/Accounts/acme/Calls/connect", gotPath)
	require.Equal(t, "acme", user)
	require.Equal(t, "tok", pass)
	require.Equal(t, "+919000000000", gotForm.Get("From"))
	require.Equal(t, "+919876543210", gotForm.Get("To"))
	require.Equal(t, "08012345678", gotForm.Get("CallerId"))
	require.Equal(t, "trans", gotForm.Get("CallType"))
	require.Equal(t, "30", gotForm.Get("TimeLimit"))
	require.Equal(t, "10", gotForm.Get("TimeOut"))
	require.Equal(t, "https://example.com/callback", gotForm.Get("StatusCallback"))
	require.Equal(t, "Admissions are open", gotForm.Get("CustomField"))
}

func TestExotelProviderNon200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"RestException":{"Message":"Not allowed"}}`))
	}))
	defer srv.Close()

	p, err := voiceprovider.NewExotelProvider(fullConfig(), zerolog.Nop(), voiceprovider.WithExotelBaseURL(srv.URL))
	require.NoError(t, err)

	raw, err := p.Send(context.Background(), &voiceprovider.Payload{To: "+919876543210"})
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, raw.Code)
	require.Contains(t, raw.Body, "Not allowed")
}

func TestExotelProviderMissingCredentials(t *testing.T) {
	p, err := voiceprovider.NewExotelProvider(config.ExotelConfig{SID: "acme"}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []string{"EXOTEL_TOKEN", "EXOPHONE", "EXOTEL_FROM"}, p.MissingCredentials())

	_, err = p.Send(context.Background(), &voiceprovider.Payload{To: "+919876543210"})
	require.Error(t, err)
}

func TestMockProviderRecordsCalls(t *testing.T) {
	p := voiceprovider.NewMockProvider(zerolog.Nop(), voiceprovider.WithRecipientScenario("+911111111111", voiceprovider.ScenarioFailure))

	_, err := p.Send(context.Background(), &voiceprovider.Payload{To: "+919876543210"})
	require.NoError(t, err)
	raw, err := p.Send(context.Background(), &voiceprovider.Payload{To: "+911111111111"})
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, raw.Code)
	require.Len(t, p.Calls(), 2)
}
