package httpproxy

import "fmt"

// MainXML renders the static main.xml document handed to the client at
// GET /ow/static/main.xml. Its base URL is built from the ambassador's
// own listen host/port, not from any upstream base URL in
// RoutingConfiguration.
//
// Some entries below prepend an extra "http://" before an already
// absolute "http://..." base URL. This is faithful to the source
// template and is intentionally not corrected here (see DESIGN.md,
// Open Question 3); do not silently repair it.
func MainXML(listenHost string, listenPort int) []byte {
	base := fmt.Sprintf("http://%s:%d", listenHost, listenPort)

	doc := fmt.Sprintf(`<supershell v="1">
	<mobile>
		<param name="url" value="http://cdn-ssl.example.com/ow/games/info/supershellair-mobile.swf"/>
		<param name="version" value="357.9243.14-a-main-2021-10-17-03"/>
		<param name="core-version" value="357.9243.14-a-core-2021-10-17-03"/>
		<param name="dsop" value="Y2wzdjNyIGhheG9yCg=="/>
		<param name="main" value="%s/main-api/"/>
		<param name="cdn" value="%s/main-cdn/"/>
		<param name="image" value="http://%s/image-cdn/"/>
		<param name="game-image" value="http://%s/game-image-cdn/"/>
		<param name="cdn-dynamic-personal" value="http://%s/"/>
		<param name="cdn-dynamic-photos" value="http://%s/cdn-dynamic/"/>
		<param name="cdn-dynamic-contests" value="http://%s/cdn-dynamic/"/>
		<param name="cdn-dynamic-crews" value="http://%s/cdn-dynamic/"/>
		<param name="cdn-dynamic-common" value="http://%s/cdn-dynamic-common/"/>
		<param name="env" value="supershell"/>
		<param name="landing" value="103"/>
		<param name="future" value="false"/>
	</mobile>
</supershell>
`, base, base, base, base, base, base, base, base, base)

	return []byte(doc)
}

// MobileServerXML renders the literal GET /ow/mobileserver response
// body advertising this ambassador's own HTTP endpoint.
func MobileServerXML(listenHost string, listenPort int) []byte {
	return []byte(fmt.Sprintf(
		`<xml url="http://%s:%d/ow" action="info"></xml>`,
		listenHost, listenPort,
	))
}
