package epub

import "encoding/xml"

// containerXML mirrors META-INF/container.xml, which locates the OPF package
// document inside the archive.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packageDoc mirrors the OPF package document: publication metadata, the
// manifest of resources, and the spine's reading order.
type packageDoc struct {
	XMLName  xml.Name `xml:"package"`
	Metadata struct {
		Titles       []string `xml:"title"`
		Creators     []string `xml:"creator"`
		Descriptions []string `xml:"description"`
		Metas        []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// manifestItem is one resource declared by the OPF manifest.
type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// ncxDoc mirrors the EPUB 2 NCX navigation document; navPoint nesting is
// preserved so nested entries can be flattened into an href-to-title map.
type ncxDoc struct {
	XMLName xml.Name   `xml:"ncx"`
	NavMap  []navPoint `xml:"navMap>navPoint"`
}

type navPoint struct {
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

// flattenNavPoints walks the navMap depth-first, collecting src→title pairs.
// The first title for a given src wins.
func flattenNavPoints(points []navPoint, into map[string]string) {
	for _, p := range points {
		if p.Content.Src != "" && p.Label != "" {
			if _, ok := into[p.Content.Src]; !ok {
				into[p.Content.Src] = p.Label
			}
		}
		flattenNavPoints(p.Children, into)
	}
}
