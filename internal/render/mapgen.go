package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"butterfly-survey/internal/model"
)

// mapTemplate is the self-contained interactive map document: Leaflet
// from CDN, one circle marker per observation colored by family, the
// survey hull polygon and a family legend.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .legend { background: white; padding: 8px 12px; border-radius: 4px; box-shadow: 0 1px 4px rgba(0,0,0,0.3); font: 13px sans-serif; }
  .legend i { display: inline-block; width: 12px; height: 12px; border-radius: 50%; margin-right: 6px; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var markers = {{.MarkersJSON}};
var hull = {{.HullJSON}};
var legend = {{.LegendJSON}};

var map = L.map('map');
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var group = L.featureGroup();
markers.forEach(function (m) {
  L.circleMarker([m.lat, m.lon], {
    radius: 7, color: m.color, fillColor: m.color, fillOpacity: 0.8
  }).bindPopup(m.label).addTo(group);
});
group.addTo(map);

if (hull.length >= 3) {
  L.polygon(hull.map(function (v) { return [v.lat, v.lon]; }), {
    color: '#2b2b2b', weight: 2, fill: false, dashArray: '6 4'
  }).addTo(map);
}

if (markers.length > 0) {
  map.fitBounds(group.getBounds().pad(0.15));
} else {
  map.setView([0, 0], 2);
}

var control = L.control({position: 'bottomright'});
control.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  legend.forEach(function (f) {
    div.innerHTML += '<div><i style="background:' + f.color + '"></i>' + f.family + '</div>';
  });
  return div;
};
control.addTo(map);
</script>
</body>
</html>
`))

type mapData struct {
	Title       string
	MarkersJSON template.JS
	HullJSON    template.JS
	LegendJSON  template.JS
}

type legendEntry struct {
	Family string `json:"family"`
	Color  string `json:"color"`
}

// WriteMap writes the interactive observation map to path.
func WriteMap(path, title string, markers []model.MapMarker, hull model.HullResult) error {
	if markers == nil {
		markers = []model.MapMarker{}
	}
	vertices := hull.Vertices
	if vertices == nil {
		vertices = []model.LatLon{}
	}

	seen := make(map[string]bool)
	legend := []legendEntry{}
	for _, m := range markers {
		if !seen[m.Family] {
			seen[m.Family] = true
			legend = append(legend, legendEntry{Family: m.Family, Color: m.Color})
		}
	}

	markersJSON, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}
	hullJSON, err := json.Marshal(vertices)
	if err != nil {
		return fmt.Errorf("failed to encode hull: %w", err)
	}
	legendJSON, err := json.Marshal(legend)
	if err != nil {
		return fmt.Errorf("failed to encode legend: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}
	defer file.Close()

	return mapTemplate.Execute(file, mapData{
		Title:       title,
		MarkersJSON: template.JS(markersJSON),
		HullJSON:    template.JS(hullJSON),
		LegendJSON:  template.JS(legendJSON),
	})
}
