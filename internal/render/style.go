package render

// stylesheet follows the FiveThirtyEight table look: light rules, bold
// uppercase column labels, no vertical borders.
const stylesheet = `
body { margin: 0; font-family: "Chivo", "Helvetica Neue", Helvetica, Arial, sans-serif; color: #333; background: #fff; }
.layout { display: flex; min-height: 100vh; }
.sidebar { width: 240px; padding: 16px; background: #f5f5f5; border-right: 1px solid #ddd; }
.sidebar h2 { font-size: 16px; margin: 0 0 12px; }
.sidebar h3 { font-size: 13px; margin: 14px 0 4px; text-transform: uppercase; color: #555; }
.sidebar ul { list-style: none; margin: 0; padding: 0; }
.sidebar li a { display: block; padding: 2px 6px; color: #333; text-decoration: none; border-radius: 3px; }
.sidebar li a.active { background: #333; color: #fff; }
.controls label { display: block; margin: 10px 0 4px; font-size: 13px; font-weight: bold; }
.controls select { width: 100%; }
.controls label.switch { font-weight: normal; }
.controls button { margin-top: 12px; width: 100%; }
.tip { font-size: 0.9em; color: #555; margin-top: 4px; }
main { flex: 1; padding: 16px; overflow-x: auto; }
.card { border: 1px solid #e5e5e5; padding: 8px; }
table.gt-538 { border-collapse: collapse; font-size: 14px; width: 100%; }
table.gt-538 th, table.gt-538 td { padding: 4px 8px; border: none; }
.gt-title th { text-align: left; font-size: 22px; font-weight: bold; padding-top: 8px; }
.gt-subtitle th { text-align: left; font-size: 14px; font-weight: normal; color: #555; padding-bottom: 12px; }
.gt-columns th { text-align: left; font-size: 12px; text-transform: uppercase; color: #333; border-bottom: 2px solid #333; }
tbody tr { border-bottom: 1px solid #ddd; }
td.center { text-align: center; }
td.name { font-weight: bold; white-space: nowrap; }
tr.empty td { text-align: center; color: #777; padding: 24px; }
.era-box { display: inline-block; min-width: 44px; padding: 2px 6px; border-radius: 3px; font-weight: bold; }
.era-missing { color: #999; }
.gt-source td { font-size: 12px; color: #555; border-top: 2px solid #333; }
.chart { margin: 16px 0 0; }
.chart figcaption { font-size: 12px; color: #555; }
`
