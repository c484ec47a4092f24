package tracker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	schema "github.com/turbokube/storemeta/pkg/schema/v1"
	"github.com/turbokube/storemeta/pkg/tracker"
)

func TestHTTPTracker(t *testing.T) {
	RegisterTestingT(t)

	var gotPath, gotMethod, gotAuth string
	var gotBody map[string]string
	var status int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(status)
	}))
	defer server.Close()

	tr := tracker.NewHTTPTracker(schema.Tracker{
		URL:       server.URL + "/",
		Namespace: "builds",
		Token:     "s3cret",
	})

	t.Run("annotations patch", func(t *testing.T) {
		status = http.StatusOK
		err := tr.UpdateAnnotations(context.Background(), "app-1-build", map[string]string{"image-id": "sha256:aa"})
		Expect(err).To(BeNil())
		Expect(gotMethod).To(Equal(http.MethodPatch))
		Expect(gotPath).To(Equal("/namespaces/builds/pipelineruns/app-1-build/annotations"))
		Expect(gotAuth).To(Equal("Bearer s3cret"))
		Expect(gotBody).To(HaveKeyWithValue("image-id", "sha256:aa"))
	})

	t.Run("labels patch", func(t *testing.T) {
		status = http.StatusOK
		err := tr.UpdateLabels(context.Background(), "app-1-build", map[string]string{"vendor": "Example"})
		Expect(err).To(BeNil())
		Expect(gotPath).To(Equal("/namespaces/builds/pipelineruns/app-1-build/labels"))
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		status = http.StatusConflict
		err := tr.UpdateAnnotations(context.Background(), "app-1-build", map[string]string{})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("409"))
	})
}
