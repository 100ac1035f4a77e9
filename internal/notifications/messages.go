package notifications

import (
	"fmt"
	"strings"
)

// ConfigChangedMessage is the body posted to each routed team when the watched
// configuration file changes. The title and URL are embedded verbatim.
func ConfigChangedMessage(pullRequestTitle, infoURL string) string {
	return fmt.Sprintf(
		"Le fichier de configuration a été modifié dans la PR *%s*\n Vérifiez les variables d'environnement d' <%s|intégration>",
		pullRequestTitle, infoURL,
	)
}

// TestMessage is posted by the test-notify command.
func TestMessage(repo string) string {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "🧪 teamnotify test message"
	}
	return fmt.Sprintf("🧪 teamnotify test message for %s", repo)
}
