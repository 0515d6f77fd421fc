package exporter

import "strings"

// baseStyles is shared by both report layouts
const baseStyles = `  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f8fafc; color: #334155; line-height: 1.6; }
  .container { max-width: 1100px; margin: 0 auto; padding: 40px 24px; }
  .header { background: linear-gradient(135deg, #1e40af, #7c3aed); color: white; padding: 48px 40px; border-radius: 16px; margin-bottom: 32px; }
  .header h1 { font-size: 28px; font-weight: 700; margin-bottom: 8px; }
  .header p { opacity: 0.85; font-size: 15px; }
  .header .meta { margin-top: 16px; display: flex; gap: 24px; flex-wrap: wrap; font-size: 13px; opacity: 0.8; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; margin-bottom: 32px; }
  .card { background: white; border-radius: 12px; padding: 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .card .label { font-size: 12px; color: #64748b; font-weight: 500; margin-bottom: 4px; }
  .card .value { font-size: 24px; font-weight: 700; color: #0f172a; }
  .section { background: white; border-radius: 12px; padding: 28px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); margin-bottom: 24px; }
  .section-title { font-size: 18px; font-weight: 600; color: #0f172a; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #e2e8f0; }
  .section-subtitle { font-size: 15px; font-weight: 600; color: #1e293b; margin: 20px 0 8px; }
  .charts-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; margin-bottom: 32px; }
  @media (max-width: 768px) { .charts-grid { grid-template-columns: 1fr; } }
  .chart-box { background: white; border-radius: 12px; padding: 24px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .chart-box h3 { font-size: 15px; font-weight: 600; margin-bottom: 16px; color: #0f172a; }
  table { width: 100%; border-collapse: collapse; font-size: 14px; }
  th { text-align: left; padding: 10px 12px; color: #64748b; font-weight: 500; border-bottom: 2px solid #e2e8f0; font-size: 12px; text-transform: uppercase; }
  td { padding: 10px 12px; border-bottom: 1px solid #f1f5f9; }
  tr:hover { background: #f8fafc; }
  .badge-pos { color: #059669; font-weight: 600; }
  .badge-neg { color: #dc2626; font-weight: 600; }
  .tags { display: flex; flex-wrap: wrap; gap: 6px; }
  .tag { padding: 4px 10px; background: #f1f5f9; border-radius: 20px; font-size: 12px; color: #475569; }
  .tag-blue { background: #eff6ff; color: #1d4ed8; }
  .tag-purple { background: #f5f3ff; color: #7c3aed; }
  .tag-green { background: #ecfdf5; color: #047857; }
  .response { padding: 12px 16px; border-radius: 8px; margin-bottom: 8px; font-size: 13px; line-height: 1.6; }
  .response-pos { background: #ecfdf5; border-left: 3px solid #10b981; }
  .response-neg { background: #fef2f2; border-left: 3px solid #ef4444; }
  .response-sug { background: #fffbeb; border-left: 3px solid #f59e0b; }
  .ai-summary { background: linear-gradient(135deg, #faf5ff, #eff6ff); border: 1px solid #e9d5ff; border-radius: 12px; padding: 28px; margin-bottom: 24px; }
  .ai-summary h2 { color: #6d28d9; margin-bottom: 16px; }
  .ai-summary p { margin-bottom: 12px; }
  .ai-summary ul, .ai-summary ol, .ai-summary .bullet-list { margin: 8px 0 12px 20px; }
  .ai-summary li { margin-bottom: 6px; }
  .dept-card { background: white; border-radius: 12px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); margin-bottom: 12px; overflow: hidden; }
  .dept-header { padding: 16px 20px; display: flex; justify-content: space-between; align-items: center; cursor: pointer; transition: background 0.2s; }
  .dept-header:hover { background: #f8fafc; }
  .dept-header h3 { font-size: 15px; font-weight: 600; color: #0f172a; }
  .dept-meta { font-size: 12px; color: #94a3b8; }
  .dept-badges { display: flex; align-items: center; gap: 8px; font-size: 13px; }
  .chevron { transition: transform 0.3s; color: #94a3b8; }
  .dept-card.open .chevron { transform: rotate(180deg); }
  .dept-body { display: none; padding: 0 20px 20px; border-top: 1px solid #f1f5f9; }
  .dept-card.open .dept-body { display: block; }
  .sentiment-row { display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 12px; margin: 16px 0; }
  .sentiment-block { padding: 12px; border-radius: 8px; text-align: center; }
  .sentiment-block.pos { background: #ecfdf5; }
  .sentiment-block.neu { background: #f8fafc; }
  .sentiment-block.neg { background: #fef2f2; }
  .sentiment-num { font-size: 22px; font-weight: 700; }
  .sentiment-block.pos .sentiment-num { color: #059669; }
  .sentiment-block.neu .sentiment-num { color: #64748b; }
  .sentiment-block.neg .sentiment-num { color: #dc2626; }
  .sentiment-label { font-size: 11px; color: #64748b; margin-top: 2px; }
  .dist-bar { display: flex; height: 10px; border-radius: 5px; overflow: hidden; background: #f1f5f9; margin-top: 16px; }
  .dist-bar .seg { display: block; height: 100%; }
  .subsection { margin-top: 16px; }
  .subsection h4 { font-size: 13px; font-weight: 600; color: #475569; margin-bottom: 8px; }
  .empty-note { color: #94a3b8; font-size: 13px; }
  .footer { text-align: center; padding: 32px; color: #94a3b8; font-size: 12px; }
`

// multiStyles adds the question-card layout
const multiStyles = `  .mean { font-weight: 700; }
  .mean-top { color: #10b981; }
  .mean-good { color: #3b82f6; }
  .mean-mid { color: #eab308; }
  .mean-low { color: #ef4444; }
  .micro-bar { display: flex; width: 140px; height: 10px; border-radius: 5px; overflow: hidden; background: #f1f5f9; }
  .micro-bar .seg { display: block; height: 100%; }
  td.num, th.num { text-align: right; }
  .compare-table td.global, .compare-table tr.global td { font-weight: 600; background: #f8fafc; }
  .question-card { background: white; border-radius: 12px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); margin-bottom: 20px; padding: 24px; break-inside: avoid; }
  .question-header { display: flex; align-items: center; gap: 12px; margin-bottom: 16px; }
  .question-header h3 { font-size: 17px; font-weight: 600; color: #0f172a; }
  .q-meta { font-size: 12px; color: #94a3b8; margin-left: auto; }
  .q-badge { font-size: 11px; font-weight: 600; padding: 2px 10px; border-radius: 20px; text-transform: uppercase; }
  .q-badge-quant { background: #eff6ff; color: #1d4ed8; }
  .q-badge-qual { background: #f5f3ff; color: #7c3aed; }
  .q-badge-empty { background: #f1f5f9; color: #64748b; }
  .stat-grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 12px; margin-bottom: 16px; }
  @media (max-width: 768px) { .stat-grid { grid-template-columns: repeat(2, 1fr); } }
  .stat-box { background: #f8fafc; border-radius: 8px; padding: 12px; }
  .stat-box .label { font-size: 11px; color: #64748b; font-weight: 500; }
  .stat-box .value { font-size: 22px; font-weight: 700; color: #0f172a; }
  .stat-box .hint { font-size: 11px; color: #94a3b8; }
  .dist-grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 8px; margin-top: 12px; }
  .dist-box { text-align: center; border-radius: 8px; padding: 8px; }
  .dist-pct { font-size: 17px; font-weight: 700; }
  .dist-label { font-size: 11px; color: #475569; }
  .chart-wrap { margin-top: 16px; }
  .no-data { color: #94a3b8; font-size: 13px; font-style: italic; }
`

// printStyles keeps collapsed sections visible on paper
const printStyles = `  @media print { body { background: white; } .container { padding: 0; } .dept-body { display: block !important; } .header { break-after: avoid; } .section { break-inside: avoid; } }
`

// writeHead writes the document preamble up to the opening container
func writeHead(sb *strings.Builder, title, chartJSURL string, extraStyles ...string) {
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n<head>\n<meta charset=\"UTF-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString("<title>" + escapeHTML(title) + "</title>\n")
	sb.WriteString("<script src=\"" + escapeHTML(chartJSURL) + "\"></script>\n")
	sb.WriteString("<style>\n")
	sb.WriteString(baseStyles)
	for _, s := range extraStyles {
		sb.WriteString(s)
	}
	sb.WriteString(printStyles)
	sb.WriteString("</style>\n</head>\n<body>\n<div class=\"container\">\n")
}

// writeFooter closes the container after the footer line
func writeFooter(sb *strings.Builder, projectName, date string) {
	sb.WriteString("\n<div class=\"footer\">\n  Generado por " + projectName + " · " + date + "\n</div>\n\n</div>\n")
}

// writeScripts writes the chart bootstrapping block and closes the document
func writeScripts(sb *strings.Builder, scripts []string) {
	sb.WriteString("\n<script>\n")
	for _, s := range scripts {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("</script>\n</body>\n</html>")
}
